// Package encode implements the output encoding stage.
package encode

import (
	"context"
	"fmt"
	"image/color"

	"github.com/user/mdposter/pkg/pipeline"
	"github.com/user/mdposter/pkg/ports"
)

// defaultJPEGQuality is used when post-processing asks for JPEG without a quality.
const defaultJPEGQuality = 90

// Stage turns a capture into the caller-facing result.
type Stage struct {
	strategies map[pipeline.OutputMode]Strategy
	renderer   ports.Renderer
	logger     ports.Logger
}

// NewStage creates a new encode stage. renderer may be nil when no
// post-processing is ever requested.
func NewStage(strategies map[pipeline.OutputMode]Strategy, renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		strategies: strategies,
		renderer:   renderer,
		logger:     logger.WithComponent("encode"),
	}
}

// Execute post-processes the capture if requested and hands it to the strategy for input.Mode.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{}

	if len(input.Data) == 0 {
		return result, fmt.Errorf("%w: no capture data", pipeline.ErrEncode)
	}
	strategy, ok := s.strategies[input.Mode]
	if !ok {
		return result, fmt.Errorf("%w: no encoder for output mode %q", pipeline.ErrEncode, input.Mode)
	}

	data, format, err := s.postProcess(input.Data, input.PostProcess)
	if err != nil {
		return result, fmt.Errorf("%w: post-process: %v", pipeline.ErrEncode, err)
	}

	out, err := strategy.Encode(ctx, Artifact{Data: data, Format: format})
	if err != nil {
		return result, fmt.Errorf("%w: %v", pipeline.ErrEncode, err)
	}
	if out.Value == "" {
		return result, fmt.Errorf("%w: encoder returned an empty reference", pipeline.ErrEncode)
	}

	result.Result = out
	result.ContentType = format.ContentType()
	result.Size = len(data)
	s.logger.Debug("Encoded %d bytes as %s", len(data), out.Kind)
	return result, nil
}

func (s *Stage) postProcess(data []byte, pp pipeline.PostProcess) ([]byte, ports.ImageFormat, error) {
	if pp.IsZero() {
		return data, ports.FormatPNG, nil
	}
	if s.renderer == nil {
		return nil, pp.Format, fmt.Errorf("no renderer configured")
	}

	img, err := s.renderer.DecodeImage(data, ports.FormatPNG)
	if err != nil {
		return nil, pp.Format, fmt.Errorf("decode capture: %w", err)
	}

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if pp.MaxWidth > 0 && w > pp.MaxWidth {
		h = h * pp.MaxWidth / w
		if h < 1 {
			h = 1
		}
		w = pp.MaxWidth
		img = s.renderer.ResizeImage(img, w, h)
		s.logger.Debug("Resized capture to %dx%d", w, h)
	}

	if pp.Padding > 0 {
		bg := pp.Background
		if bg == nil {
			bg = color.White
		}
		canvas := s.renderer.CreateCanvas(w+2*pp.Padding, h+2*pp.Padding, bg)
		canvas.DrawImage(img, pp.Padding, pp.Padding)
		img = canvas.ToImage()
	}

	quality := pp.Quality
	if pp.Format == ports.FormatJPEG && quality <= 0 {
		quality = defaultJPEGQuality
	}
	out, err := s.renderer.EncodeImage(img, pp.Format, quality)
	if err != nil {
		return nil, pp.Format, err
	}
	return out, pp.Format, nil
}
