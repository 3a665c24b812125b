package html

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/LegacyCodeHQ/visualdep/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/visualdep/depgraph"
	"github.com/LegacyCodeHQ/visualdep/layout"
)

// PlotlyCDN is the script the generated page loads Plotly from.
const PlotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

//go:embed page.html.tmpl
var pageTemplate string

var page = template.Must(template.New("page").Parse(pageTemplate))

// Formatter renders import graphs as a standalone interactive Plotly page.
type Formatter struct{}

type trace struct {
	Type       string      `json:"type"`
	Mode       string      `json:"mode"`
	X          []float64   `json:"x"`
	Y          []float64   `json:"y"`
	Z          []float64   `json:"z,omitempty"`
	Text       []string    `json:"text,omitempty"`
	TextPos    string      `json:"textposition,omitempty"`
	Marker     *marker     `json:"marker,omitempty"`
	Line       *line       `json:"line,omitempty"`
	HoverInfo  string      `json:"hoverinfo"`
	CustomData []nodeExtra `json:"customdata,omitempty"`
}

type marker struct {
	Size  int    `json:"size"`
	Color string `json:"color"`
}

type line struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

type nodeExtra struct {
	Kind   depgraph.NodeKind `json:"kind"`
	Degree int               `json:"degree"`
}

type hiddenAxis struct {
	ShowGrid       bool `json:"showgrid"`
	ZeroLine       bool `json:"zeroline"`
	ShowTickLabels bool `json:"showticklabels"`
	ShowBackground bool `json:"showbackground"`
	Visible        bool `json:"visible"`
}

type scene struct {
	XAxis hiddenAxis `json:"xaxis"`
	YAxis hiddenAxis `json:"yaxis"`
	ZAxis hiddenAxis `json:"zaxis"`
}

type figureLayout struct {
	Title      string         `json:"title"`
	ShowLegend bool           `json:"showlegend"`
	Margin     map[string]int `json:"margin"`
	XAxis      *hiddenAxis    `json:"xaxis,omitempty"`
	YAxis      *hiddenAxis    `json:"yaxis,omitempty"`
	Scene      *scene         `json:"scene,omitempty"`
}

type figure struct {
	Data   []trace      `json:"data"`
	Layout figureLayout `json:"layout"`
}

type pageData struct {
	Title     string
	PlotlyCDN string
	Figure    figure
}

// Format lays the graph out with a seeded spring layout and renders it as HTML.
func (f *Formatter) Format(a *depgraph.Analysis, opts formatters.RenderOptions) (string, error) {
	dim := opts.Dimensions
	if dim == 0 {
		dim = 3
	}

	fig, err := buildFigure(a, dim, opts.Seed)
	if err != nil {
		return "", err
	}

	dir := opts.Label
	if dir == "" {
		dir = a.Root
	}
	title := fmt.Sprintf("Python Import Graph in %dD for %s", dim, dir)
	fig.Layout.Title = title

	var buf bytes.Buffer
	if err := page.Execute(&buf, pageData{Title: title, PlotlyCDN: PlotlyCDN, Figure: fig}); err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	return buf.String(), nil
}

// GenerateURL returns false as HTML output is a standalone file.
func (f *Formatter) GenerateURL(output string) (string, bool) {
	return "", false
}

func buildFigure(a *depgraph.Analysis, dim int, seed int64) (figure, error) {
	nodes, err := a.Graph.Nodes()
	if err != nil {
		return figure{}, err
	}
	edges, err := a.Graph.Edges()
	if err != nil {
		return figure{}, err
	}

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	pairs := make([][2]string, len(edges))
	for i, e := range edges {
		pairs[i] = [2]string{e.Source, e.Target}
	}

	positions, err := layout.Spring(ids, pairs, dim, seed)
	if err != nil {
		return figure{}, err
	}

	traceType := "scatter"
	markerSize := 10
	if dim == 3 {
		traceType = "scatter3d"
		markerSize = 6
	}

	nodeTrace := trace{
		Type:      traceType,
		Mode:      "markers+text",
		TextPos:   "top center",
		Marker:    &marker{Size: markerSize, Color: "skyblue"},
		HoverInfo: "text",
	}
	for _, n := range nodes {
		p := positions[n.ID]
		nodeTrace.X = append(nodeTrace.X, p[0])
		nodeTrace.Y = append(nodeTrace.Y, p[1])
		if dim == 3 {
			nodeTrace.Z = append(nodeTrace.Z, p[2])
		}
		nodeTrace.Text = append(nodeTrace.Text, n.ID)
		nodeTrace.CustomData = append(nodeTrace.CustomData, nodeExtra{Kind: n.Kind, Degree: n.Degree})
	}

	data := []trace{nodeTrace}
	for _, e := range edges {
		from, to := positions[e.Source], positions[e.Target]
		edgeTrace := trace{
			Type:      traceType,
			Mode:      "lines",
			X:         []float64{from[0], to[0]},
			Y:         []float64{from[1], to[1]},
			Line:      &line{Color: "gray", Width: 2},
			HoverInfo: "none",
		}
		if dim == 3 {
			edgeTrace.Z = []float64{from[2], to[2]}
		}
		data = append(data, edgeTrace)
	}

	fl := figureLayout{
		ShowLegend: false,
		Margin:     map[string]int{"l": 0, "r": 0, "b": 0, "t": 40},
	}
	if dim == 3 {
		fl.Scene = &scene{}
	} else {
		fl.XAxis = &hiddenAxis{}
		fl.YAxis = &hiddenAxis{}
	}

	return figure{Data: data, Layout: fl}, nil
}
