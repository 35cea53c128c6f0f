package config

import "flag"

// Flags holds command-line overrides. Zero values leave the loaded
// configuration untouched.
type Flags struct {
	Config  string
	Threads int
	Width   int
	Height  int
	Shading string
	Out     string
	Format  string
	Frames  int
	Preview bool
	Strict  bool
	Debug   bool
}

// BindFlags registers the override flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.IntVar(&f.Threads, "threads", 0, "Maximum render threads")
	fs.IntVar(&f.Width, "width", 0, "Horizontal resolution")
	fs.IntVar(&f.Height, "height", 0, "Vertical resolution")
	fs.StringVar(&f.Shading, "shading", "", "Shading: barycentric, lattice or texture")
	fs.StringVar(&f.Out, "out", "", "Output path")
	fs.StringVar(&f.Format, "format", "", "Output format: png or text")
	fs.IntVar(&f.Frames, "frames", 0, "Number of turntable frames")
	fs.BoolVar(&f.Preview, "preview", false, "Show the result in the terminal")
	fs.BoolVar(&f.Strict, "strict", false, "Reject hits behind the camera")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	return f
}

// apply writes the set overrides into cfg.
func (f *Flags) apply(cfg *Config) {
	if f.Threads > 0 {
		cfg.Render.Threads = f.Threads
	}
	if f.Width > 0 {
		cfg.Camera.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Camera.Height = f.Height
	}
	if f.Shading != "" {
		cfg.Render.Shading = f.Shading
	}
	if f.Out != "" {
		cfg.Output.Path = f.Out
	}
	if f.Format != "" {
		cfg.Output.Format = f.Format
	}
	if f.Frames > 0 {
		cfg.Animation.Frames = f.Frames
	}
	if f.Preview {
		cfg.Output.Preview = true
	}
	if f.Strict {
		cfg.Render.Strict = true
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
}
