package director

// Scenario is the editable plan of a video: one scene per content block,
// optionally followed by an outro card.
type Scenario struct {
	Version string  `yaml:"version"`
	Input   string  `yaml:"input"`
	Canvas  Size    `yaml:"canvas"`
	Scenes  []Scene `yaml:"scenes"`
}

type Size struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

type SceneKind string

const (
	KindBlock SceneKind = "block"
	KindOutro SceneKind = "outro"
)

// Scene is a block's timeline. The lens phase runs from 0 to
// DialogueStart, the dialogue from DialogueStart to Duration.
type Scene struct {
	ID            int        `yaml:"id"`
	Kind          SceneKind  `yaml:"kind"`
	Title         string     `yaml:"title"`
	Points        []string   `yaml:"points,omitempty"`
	Audio         string     `yaml:"audio,omitempty"`
	Narration     float64    `yaml:"narration"` // dialogue seconds
	Duration      float64    `yaml:"duration"`
	DialogueStart float64    `yaml:"dialogue_start"`
	Typing        float64    `yaml:"typing"`
	Lens          *Lens      `yaml:"lens,omitempty"`
	Highlight     *Rectangle `yaml:"highlight,omitempty"`
	Caption       string     `yaml:"caption,omitempty"`
	URL           string     `yaml:"url,omitempty"`
}

// Lens is the magnifier path: from Start to End over Travel seconds, then
// a pulse of Pulse seconds pinned at End.
type Lens struct {
	Start  Point   `yaml:"start"`
	End    Point   `yaml:"end"`
	Zoom   float64 `yaml:"zoom"`
	Travel float64 `yaml:"travel"`
	Pulse  float64 `yaml:"pulse"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Rectangle represents a bounding box
type Rectangle struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}
