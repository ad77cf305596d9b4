// Command camprobe enumerates working camera devices and prints what
// each one reports, to help pick a camera index for the config.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ayusman/mudra/internal/capture"
)

func main() {
	max := flag.Int("max", 0, "highest device index to probe (0 for default)")
	flag.Parse()

	fmt.Println("Probing camera devices...")

	cameras := capture.ProbeCameras(*max)
	if len(cameras) == 0 {
		fmt.Println("No working cameras found.")
		os.Exit(1)
	}

	for _, cam := range cameras {
		fmt.Printf("  index %d: %dx%d @ %.0f FPS\n", cam.Index, cam.Width, cam.Height, cam.FPS)
	}

	fmt.Printf("\nRecommended camera_index: %d\n", cameras[0].Index)
}
