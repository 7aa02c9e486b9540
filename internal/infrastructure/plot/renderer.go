package plot

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Nyukimin/polyclaw/internal/domain/interp"
)

// Renderer はgonum/plotによる可視化協調コンポーネントの実装
// 補間多項式の曲線・元の標本点・評価点を1枚のPNGに描画する
type Renderer struct {
	widthInch  float64
	heightInch float64
	samples    int
}

// NewRenderer は新しいRendererを作成
func NewRenderer(widthInch, heightInch float64, samples int) *Renderer {
	if widthInch <= 0 {
		widthInch = 6
	}
	if heightInch <= 0 {
		heightInch = 4
	}
	if samples <= 1 {
		samples = 200
	}
	return &Renderer{
		widthInch:  widthInch,
		heightInch: heightInch,
		samples:    samples,
	}
}

// Render は点群・多項式・評価点をPNG画像として描画
func (r *Renderer) Render(points interp.PointSet, poly interp.Polynomial, evals []interp.Evaluation) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("no points to render")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Polynomial interpolation (degree %d)", poly.Degree())
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	lo, hi := xRange(points, evals)

	// 補間曲線
	curve := make(plotter.XYs, r.samples)
	step := (hi - lo) / float64(r.samples-1)
	for i := range curve {
		x := lo + float64(i)*step
		curve[i] = plotter.XY{X: x, Y: poly.Eval(x)}
	}
	line, err := plotter.NewLine(curve)
	if err != nil {
		return nil, fmt.Errorf("failed to build curve: %w", err)
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}

	// 元の標本点
	data := make(plotter.XYs, len(points))
	for i, pt := range points {
		data[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	scatter, err := plotter.NewScatter(data)
	if err != nil {
		return nil, fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(3)
	scatter.GlyphStyle.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}

	p.Add(line, scatter)
	p.Legend.Add("P(x)", line)
	p.Legend.Add("data", scatter)

	// 評価点
	if len(evals) > 0 {
		marks := make(plotter.XYs, len(evals))
		for i, ev := range evals {
			marks[i] = plotter.XY{X: ev.X, Y: ev.Y}
		}
		evalScatter, err := plotter.NewScatter(marks)
		if err != nil {
			return nil, fmt.Errorf("failed to build eval markers: %w", err)
		}
		evalScatter.GlyphStyle.Shape = draw.PyramidGlyph{}
		evalScatter.GlyphStyle.Radius = vg.Points(4)
		evalScatter.GlyphStyle.Color = color.RGBA{R: 44, G: 160, B: 44, A: 255}
		p.Add(evalScatter)
		p.Legend.Add("evaluated", evalScatter)
	}

	p.Legend.Top = true

	// PNGエンコード
	var buf bytes.Buffer
	wt, err := p.WriterTo(vg.Length(r.widthInch)*vg.Inch, vg.Length(r.heightInch)*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create png writer: %w", err)
	}
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}

	return buf.Bytes(), nil
}

// xRange は標本点と評価点を含むx軸の描画範囲を返す（1割の余白つき）
func xRange(points interp.PointSet, evals []interp.Evaluation) (float64, float64) {
	lo := math.Inf(1)
	hi := math.Inf(-1)

	for _, pt := range points {
		lo = math.Min(lo, pt.X)
		hi = math.Max(hi, pt.X)
	}
	for _, ev := range evals {
		lo = math.Min(lo, ev.X)
		hi = math.Max(hi, ev.X)
	}

	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}
