package config

var defaultConfig = Config{
	Output: Output{
		Width:    1280,
		Height:   720,
		Scale:    1,
		Renderer: RendererSoft,
		FPS:      60,
	},
	Decoration: Decoration{
		Height:            24,
		Padding:           6,
		Background:        "#303030",
		BackgroundFocused: "#285577",
		Tab:               "#222222",
		TabActive:         "#3d6b8f",
		Text:              "#aaaaaa",
		TextFocused:       "#ffffff",
	},
	Background: "#202020",
	Tiling: Tiling{
		Mode: TilingGrid,
		Gap:  8,
	},
	Floating: Floating{
		Width:  480,
		Height: 320,
	},
	Seats: []string{"seat0"},
	Clients: []Client{
		{Title: "terminal", AppID: "demo.terminal", Color: "#4a90e2", Group: "terminals", Windows: 2},
		{Title: "editor", AppID: "demo.editor", Color: "#7ed321", MinWidth: 200, MinHeight: 150, Badge: true},
		{Title: "viewer", AppID: "demo.viewer", Color: "#d0021b", MaxWidth: 640, Floating: true, Popup: true},
	},
}

const (
	RendererSoft  = "soft"
	RendererMulti = "multi"

	TilingGrid   = "grid"
	TilingManual = "manual"
)

type Config struct {
	Output     Output     `json:"output" yaml:"output"`
	Decoration Decoration `json:"decoration" yaml:"decoration"`
	Background string     `json:"background" yaml:"background"`
	Tiling     Tiling     `json:"tiling" yaml:"tiling"`
	Floating   Floating   `json:"floating" yaml:"floating"`
	Debug      bool       `json:"debug" yaml:"debug"`
	Seats      []string   `json:"seats" yaml:"seats"`
	Clients    []Client   `json:"clients" yaml:"clients"`
}

type Output struct {
	Width    int     `json:"width" yaml:"width"`
	Height   int     `json:"height" yaml:"height"`
	Scale    float64 `json:"scale" yaml:"scale"`
	Renderer string  `json:"renderer" yaml:"renderer"` // [soft, multi]
	// Adapters are the render nodes of the multi renderer. The first one
	// renders, the last one is presented.
	Adapters []string `json:"adapters,omitempty" yaml:"adapters,omitempty"`
	FPS      int      `json:"fps" yaml:"fps"`
}

type Decoration struct {
	Height            int    `json:"height" yaml:"height"`
	Padding           int    `json:"padding" yaml:"padding"`
	Background        string `json:"background" yaml:"background"`
	BackgroundFocused string `json:"background_focused" yaml:"background_focused"`
	Tab               string `json:"tab" yaml:"tab"`
	TabActive         string `json:"tab_active" yaml:"tab_active"`
	Text              string `json:"text" yaml:"text"`
	TextFocused       string `json:"text_focused" yaml:"text_focused"`
}

type Tiling struct {
	Mode  string `json:"mode" yaml:"mode"` // [grid, manual]
	Gap   int    `json:"gap" yaml:"gap"`
	Panes []Pane `json:"panes,omitempty" yaml:"panes,omitempty"`
}

// Pane is a manual tiling slot as ratios of the output.
type Pane struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

type Floating struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Client is a demo client started with the compositor.
type Client struct {
	UUID      string `json:"uuid" yaml:"uuid"`
	Title     string `json:"title" yaml:"title"`
	AppID     string `json:"app_id" yaml:"app_id"`
	Color     string `json:"color" yaml:"color"`
	Group     string `json:"group" yaml:"group"`
	Floating  bool   `json:"floating" yaml:"floating"`
	Windows   int    `json:"windows" yaml:"windows"`
	MinWidth  int    `json:"min_width" yaml:"min_width"`
	MinHeight int    `json:"min_height" yaml:"min_height"`
	MaxWidth  int    `json:"max_width" yaml:"max_width"`
	MaxHeight int    `json:"max_height" yaml:"max_height"`
	Badge     bool   `json:"badge" yaml:"badge"`
	Popup     bool   `json:"popup" yaml:"popup"`
}
