package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/braunma/netmap/internal/constants"
	"github.com/braunma/netmap/pkg/utils"
)

const (
	edgeColor         = "94a3b8"
	fallbackEdgeColor = "f59e0b"
	textColor         = "1f2937"
)

// WriteSVG serialises the scene as a standalone SVG document
func WriteSVG(w io.Writer, s *Scene) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(s.Width), num(s.Height), num(s.Width), num(s.Height))
	fmt.Fprintf(bw, `<g class="viewport" transform="translate(%s,%s) scale(%s)">`+"\n",
		num(s.Transform.X), num(s.Transform.Y), num(s.Transform.K))

	bw.WriteString(`<g class="links">` + "\n")
	for _, e := range s.Edges {
		writeEdge(bw, e)
	}
	bw.WriteString("</g>\n")

	bw.WriteString(`<g class="nodes">` + "\n")
	for _, n := range s.Nodes {
		writeNode(bw, n)
	}
	bw.WriteString("</g>\n</g>\n</svg>\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

func writeEdge(w *bufio.Writer, e EdgeShape) {
	stroke := edgeColor
	dash := ""
	if e.Fallback {
		stroke = fallbackEdgeColor
		dash = ` stroke-dasharray="6,4"`
	}
	fmt.Fprintf(w, `<path class="link" data-source="%s" data-target="%s" d="%s" fill="none" stroke="%s" stroke-width="2"%s/>`+"\n",
		escape(e.Source), escape(e.Target), e.Path, utils.CSSColor(stroke), dash)

	if e.Label != nil {
		fmt.Fprintf(w, `<text class="link-label" transform="translate(%s,%s) rotate(%s)" dy="-%s" text-anchor="middle" font-size="10" fill="%s">%s</text>`+"\n",
			num(e.Label.X), num(e.Label.Y), num(e.Label.Angle), num(constants.EdgeLabelOffset), utils.CSSColor(textColor), escape(e.Label.Text))
	}
}

func writeNode(w *bufio.Writer, n NodeShape) {
	fmt.Fprintf(w, `<g class="node" data-id="%s" data-role="%s" transform="translate(%s,%s)">`+"\n",
		escape(n.ID), n.Role, num(n.X), num(n.Y))

	if n.Glow != "" {
		fmt.Fprintf(w, `<circle class="glow" r="%s" fill="none" stroke="%s" stroke-width="6" stroke-opacity="0.6"/>`+"\n",
			num(n.Radius+constants.GlowPadding), utils.CSSColor(n.Glow))
	}
	if n.Selected {
		fmt.Fprintf(w, `<circle class="halo" r="%s" fill="none" stroke="%s" stroke-width="3"/>`+"\n",
			num(n.Radius+constants.HaloPadding), utils.CSSColor(n.Halo))
	}
	fmt.Fprintf(w, `<circle class="ring" r="%s" fill="#ffffff" stroke="%s" stroke-width="3"/>`+"\n",
		num(n.Radius), utils.CSSColor(n.Ring))
	fmt.Fprintf(w, `<text class="icon" text-anchor="middle" dy="4" font-size="11" font-weight="bold" fill="%s">%s</text>`+"\n",
		utils.CSSColor(n.Ring), escape(n.Icon))
	fmt.Fprintf(w, `<text class="label" text-anchor="middle" dy="%s" font-size="12" fill="%s">%s</text>`+"\n",
		num(n.Radius+16), utils.CSSColor(textColor), escape(n.Label))

	w.WriteString("</g>\n")
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
