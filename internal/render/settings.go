package render

// Settings holds the visualization toggles.
type Settings struct {
	ShowGrid      bool
	RealisticMode bool
	LockCamera    bool
}

func DefaultSettings() Settings {
	return Settings{ShowGrid: true, LockCamera: true}
}
