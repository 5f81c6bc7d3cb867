package fleximg

import "fmt"

// defaultLogf mirrors the teacher's habit of logging recoverable
// conditions straight to stdout with fmt.Printf rather than a structured
// logging library (see video_compositor.go's
// "Compositor: Error updating frame: %v" calls).
func defaultLogf(format string, args ...any) {
	fmt.Printf("fleximg: "+format+"\n", args...)
}
