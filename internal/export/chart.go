package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/guttosm/binpack-service/internal/domain/model"
)

// levelColors cycles per support level.
var levelColors = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666",
	"#73c0de", "#3ba272", "#fc8452", "#9a60b4",
}

// WriteChart renders an HTML page with a 3D scatter of placed item
// centres, one series per support level.
//
// The chart's vertical axis is the container height; the horizontal
// plane is width by depth.
func WriteChart(w io.Writer, alloc *model.Allocation) error {
	c := alloc.Container
	longest := float32(max(c.Width, c.Height, c.Depth, 1))

	scatter := charts.NewScatter3D()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Allocation " + alloc.ID,
			Width:     "1000px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Allocation " + alloc.ID,
			Subtitle: fmt.Sprintf("%s container, %d items, %.1f%% volume used",
				c.Box(), len(alloc.Placements), alloc.VolumeUtilization()*100),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Type: "scroll"}),
		charts.WithXAxis3DOpts(opts.XAxis3D{Name: "width", Min: 0, Max: c.Width}),
		charts.WithYAxis3DOpts(opts.YAxis3D{Name: "depth", Min: 0, Max: c.Depth}),
		charts.WithZAxis3DOpts(opts.ZAxis3D{Name: "height", Min: 0, Max: c.Height}),
		charts.WithGrid3DOpts(opts.Grid3D{
			BoxWidth:  100 * float32(c.Width) / longest,
			BoxDepth:  100 * float32(c.Depth) / longest,
			BoxHeight: 100 * float32(c.Height) / longest,
		}),
	)

	levels := levelIndex(alloc)
	series := make([][]opts.Chart3DData, len(levels))
	for _, p := range alloc.Placements {
		lvl := levels[p.Min.Y]
		color := levelColors[(lvl-1)%len(levelColors)]
		series[lvl-1] = append(series[lvl-1], opts.Chart3DData{
			Name: p.ItemID,
			Value: []interface{}{
				centre(p.Min.X, p.Max.X),
				centre(p.Min.Z, p.Max.Z),
				centre(p.Min.Y, p.Max.Y),
			},
			ItemStyle: &opts.ItemStyle{Color: color},
		})
	}
	for i, data := range series {
		scatter.AddSeries(fmt.Sprintf("Level %d", i+1), data)
	}

	return scatter.Render(w)
}

func centre(lo, hi uint) float64 {
	return float64(lo+hi) / 2
}
