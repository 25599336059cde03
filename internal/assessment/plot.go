package assessment

// Plot geometry. Scores in [0, 1] are scaled onto [0, PlotMax].
const (
	PlotMax     = 10.0
	PlotDivider = PlotMax * Threshold
	PlotTick    = 2.0
)

// Point is a position in plot coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Axis describes one plot axis.
type Axis struct {
	Title string  `json:"title"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Tick  float64 `json:"tick"`
}

// Orientation of a divider line.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Divider is a dashed reference line separating quadrants.
type Divider struct {
	Orientation Orientation `json:"orientation"`
	At          float64     `json:"at"`
	Color       string      `json:"color"`
	Dashed      bool        `json:"dashed"`
}

// QuadrantLabel names one quadrant at its anchor point.
type QuadrantLabel struct {
	Profile Profile `json:"profile"`
	Text    string  `json:"text"`
	Anchor  Point   `json:"anchor"`
}

// MarkerStyle is the color and shape used for a profile's marker.
type MarkerStyle struct {
	Color  string `json:"color"`
	Symbol string `json:"symbol"`
}

// Marker is the respondent's position.
type Marker struct {
	Position Point       `json:"position"`
	Style    MarkerStyle `json:"style"`
	Caption  string      `json:"caption"`
	Size     int         `json:"size"`
}

// PlotSpec is a renderer-independent description of the quadrant chart.
type PlotSpec struct {
	Title     string          `json:"title"`
	XAxis     Axis            `json:"x_axis"`
	YAxis     Axis            `json:"y_axis"`
	Dividers  []Divider       `json:"dividers"`
	Quadrants []QuadrantLabel `json:"quadrants"`
	Marker    Marker          `json:"marker"`
	Profile   Profile         `json:"profile"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
}

var markerStyles = map[Profile]MarkerStyle{
	ProfileStrategicCommunicator: {Color: "#00b4d8", Symbol: "star"},
	ProfileTechnicalExpert:       {Color: "#8B5CF6", Symbol: "diamond"},
	ProfileStoryteller:           {Color: "#F97316", Symbol: "circle"},
	ProfileIntuitiveAnalyst:      {Color: "#22C55E", Symbol: "square"},
}

// StyleFor returns the marker style of p.
func StyleFor(p Profile) MarkerStyle {
	return markerStyles[p]
}

var quadrantAnchors = map[Profile]Point{
	ProfileStrategicCommunicator: {X: 7.5, Y: 7.5},
	ProfileTechnicalExpert:       {X: 7.5, Y: 2.5},
	ProfileStoryteller:           {X: 2.5, Y: 7.5},
	ProfileIntuitiveAnalyst:      {X: 2.5, Y: 2.5},
}

const dividerColor = "#666666"

// BuildPlotSpec lays out the quadrant chart for a result.
func BuildPlotSpec(r ScoreResult, p Profile) PlotSpec {
	labels := make([]QuadrantLabel, 0, len(quadrantAnchors))
	for _, q := range AllProfiles() {
		labels = append(labels, QuadrantLabel{Profile: q, Text: q.String(), Anchor: quadrantAnchors[q]})
	}

	return PlotSpec{
		Title: "Your Data Analysis Style Profile",
		XAxis: Axis{Title: "Analytical Approach", Min: 0, Max: PlotMax, Tick: PlotTick},
		YAxis: Axis{Title: "Communication Style", Min: 0, Max: PlotMax, Tick: PlotTick},
		Dividers: []Divider{
			{Orientation: Horizontal, At: PlotDivider, Color: dividerColor, Dashed: true},
			{Orientation: Vertical, At: PlotDivider, Color: dividerColor, Dashed: true},
		},
		Quadrants: labels,
		Marker: Marker{
			Position: Point{X: r.Analytical * PlotMax, Y: r.Communication * PlotMax},
			Style:    StyleFor(p),
			Caption:  "Your Position",
			Size:     15,
		},
		Profile: p,
		Width:   800,
		Height:  600,
	}
}

// QuadrantAt returns the profile whose quadrant contains pt.
func (s PlotSpec) QuadrantAt(pt Point) Profile {
	return Classify(ScoreResult{Analytical: pt.X / PlotMax, Communication: pt.Y / PlotMax})
}
