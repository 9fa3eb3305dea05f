package canvasrenderer

import (
	"fmt"
	"io"

	"github.com/tdewolff/canvas/renderers/pdf"
)

// WritePDF writes everything painted since the last Resize/Clear as a one-page
// vector PDF sized to the surface's logical dimensions. Shadows are raster-only
// and are not part of the export.
func (s *Surface) WritePDF(w io.Writer) error {
	width, height := s.logicalSize()
	writer := pdf.New(w, width, height, nil)
	s.record.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}
