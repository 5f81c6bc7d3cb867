package fleximg

// sampleAffineRow is the shared kernel behind spec.md §4.2's source
// pull: invert total, clip against the source's transformed bounding
// box, sample via nearest or bilinear, and return a response at the
// request's own origin. Both SourceNode and AffineNode's materialize
// path call this against their own ViewPort.
func sampleAffineRow(scratch *RGBAHandle, src ViewPort, interp Interpolation, total Matrix, req RenderRequest) RenderResponse {
	inv, ok := total.Invert()
	if !ok {
		// GeometryDegenerate: singular matrix, not fatal (spec.md §7).
		return emptyResponse(req.Origin)
	}

	clipX0, clipW := clipTransformedRow(src, total, req)
	if clipW <= 0 {
		return emptyResponse(req.Origin)
	}

	scratch.Release()
	*scratch = req.Ctx.Pool.AcquireRGBARow(req.Width)
	view := scratch.View()
	rowBytes := view.Row(0)

	startOut := Point{X: addSatFixed(req.Origin.X, ToFixed(clipX0)), Y: req.Origin.Y}
	srcStart := inv.Apply(startOut)
	stepX := Point{X: inv.A, Y: inv.C}

	desc := FormatOf(src.Format())
	if interp == Bilinear {
		sampleBilinearRow(desc, src, rowBytes, clipX0, clipW, srcStart, stepX)
	} else {
		sampleNearestRow(desc, src, rowBytes, clipX0, clipW, srcStart, stepX)
	}

	return RenderResponse{
		View:      view,
		Origin:    req.Origin,
		DataRange: DataRange{X: clipX0, Y: 0, W: clipW, H: 1},
		Status:    Ready,
	}
}

// clipTransformedRow intersects the request row against the output-
// space bounding box of src's rectangle under total, returning the
// (request-relative) start column and width to actually sample.
func clipTransformedRow(src ViewPort, total Matrix, req RenderRequest) (x0, w int) {
	w0, h0 := src.Width(), src.Height()
	corners := [4]Point{
		total.Apply(Point{}),
		total.Apply(Point{X: ToFixed(w0)}),
		total.Apply(Point{Y: ToFixed(h0)}),
		total.Apply(Point{X: ToFixed(w0), Y: ToFixed(h0)}),
	}
	minX, maxX := corners[0].X, corners[0].X
	minY, maxY := corners[0].Y, corners[0].Y
	for _, c := range corners[1:] {
		if c.X < minX {
			minX = c.X
		}
		if c.X > maxX {
			maxX = c.X
		}
		minY = min(minY, c.Y)
		maxY = max(maxY, c.Y)
	}
	if rowY := req.Origin.Y.Floor(); rowY < minY.Floor() || rowY >= maxY.Round() {
		return 0, 0
	}
	rowMinX := minX.Floor()
	rowMaxX := maxX.Round()
	reqMinX := req.Origin.X.Floor()
	reqMaxX := reqMinX + req.Width
	lo := maxInt(rowMinX, reqMinX)
	hi := minInt(rowMaxX, reqMaxX)
	if hi <= lo {
		return 0, 0
	}
	return lo - reqMinX, hi - lo
}

func sampleNearestRow(desc *FormatDescriptor, src ViewPort, dstRow []byte, dstX0, clipW int, start, step Point) {
	x, y := start.X, start.Y
	w, h := src.Width(), src.Height()
	for i := 0; i < clipW; i++ {
		var c RGBA
		sx, sy := x.Floor(), y.Floor()
		if sx >= 0 && sx < w && sy >= 0 && sy < h {
			c = straightenAt(desc, src.Palette(), src.Row(sy), sx)
		}
		setRGBAAt(dstRow, dstX0+i, c)
		x = addSatFixed(x, step.X)
		y = addSatFixed(y, step.Y)
	}
}

func sampleBilinearRow(desc *FormatDescriptor, src ViewPort, dstRow []byte, dstX0, clipW int, start, step Point) {
	x, y := start.X, start.Y
	w, h := src.Width(), src.Height()
	for i := 0; i < clipW; i++ {
		setRGBAAt(dstRow, dstX0+i, bilinearAt(desc, src, x, y, w, h))
		x = addSatFixed(x, step.X)
		y = addSatFixed(y, step.Y)
	}
}

func bilinearAt(desc *FormatDescriptor, src ViewPort, x, y Fixed, w, h int) RGBA {
	x0, y0 := x.Floor(), y.Floor()
	fx, fy := int(x.Frac()), int(y.Frac())
	get := func(px, py int) RGBA {
		if px < 0 || px >= w || py < 0 || py >= h {
			return RGBA{}
		}
		return straightenAt(desc, src.Palette(), src.Row(py), px)
	}
	c00, c10 := get(x0, y0), get(x0+1, y0)
	c01, c11 := get(x0, y0+1), get(x0+1, y0+1)
	lerp := func(a, b uint8, t int) uint8 {
		return uint8((int(a)*(fixedOne-t) + int(b)*t) >> FixedShift)
	}
	top := RGBA{lerp(c00.R, c10.R, fx), lerp(c00.G, c10.G, fx), lerp(c00.B, c10.B, fx), lerp(c00.A, c10.A, fx)}
	bot := RGBA{lerp(c01.R, c11.R, fx), lerp(c01.G, c11.G, fx), lerp(c01.B, c11.B, fx), lerp(c01.A, c11.A, fx)}
	return RGBA{lerp(top.R, bot.R, fy), lerp(top.G, bot.G, fy), lerp(top.B, bot.B, fy), lerp(top.A, bot.A, fy)}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
