package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ainyan03/fleximg-go"
	"github.com/ainyan03/fleximg-go/imageio"
)

func main() {
	outFile := flag.String("o", "", "Output file (required)")
	brightness := flag.Float64("brightness", 0, "Apply brightness filter (-1.0 to 1.0)")
	grayscale := flag.Bool("grayscale", false, "Convert to grayscale")
	blurRadius := flag.Int("blur", 0, "Apply box blur (radius in pixels)")
	alpha := flag.Float64("alpha", 1.0, "Set alpha factor (0.0-1.0)")
	verbose := flag.Bool("verbose", false, "Show verbose output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: compose <input> -o <output> [options]\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  compose input.png -o output.png -brightness 0.2\n")
		fmt.Fprintf(os.Stderr, "  compose input.png -o output.png -grayscale\n")
		fmt.Fprintf(os.Stderr, "  compose input.png -o output.png -blur 5\n")
	}
	flag.Parse()

	if flag.NArg() != 1 || *outFile == "" {
		flag.Usage()
		os.Exit(1)
	}
	inputPath := flag.Arg(0)

	buf, err := imageio.LoadFile(inputPath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		fmt.Printf("loaded %s: %dx%d\n", inputPath, buf.Width(), buf.Height())
	}

	src := fleximg.NewSourceNode()
	src.SetSource(buf.View())

	var head fleximg.Node = src
	connect := func(n fleximg.Wireable) {
		if err := fleximg.Connect(head, n); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		head = n
	}

	if *brightness != 0 {
		connect(fleximg.NewBrightnessNode(int(*brightness * 255)))
	}
	if *grayscale {
		connect(fleximg.NewGrayscaleNode())
	}
	if *blurRadius > 0 {
		connect(fleximg.NewHorizontalBlurNode(*blurRadius))
		connect(fleximg.NewVerticalBlurNode(*blurRadius))
	}
	if *alpha != 1.0 {
		connect(fleximg.NewAlphaNode(*alpha))
	}

	out := fleximg.NewImageBuffer(buf.Width(), buf.Height(), fleximg.RGBA8Straight, fleximg.Zeroed, nil, nil)
	sink := fleximg.NewViewPortSink()
	sink.SetTarget(*out)

	renderer := fleximg.NewRendererNode()
	renderer.SetUpstream(head)
	renderer.SetSink(sink)
	renderer.SetVirtualScreen(buf.Width(), buf.Height())

	if status := renderer.Exec(); status == fleximg.StatusError {
		fmt.Fprintf(os.Stderr, "error: render failed\n")
		os.Exit(1)
	}

	if err := imageio.SaveFile(out, *outFile); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", *outFile, err)
		os.Exit(1)
	}
	if *verbose {
		fmt.Printf("wrote %s\n", *outFile)
	}
}
