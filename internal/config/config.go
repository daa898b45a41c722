// Handles the serve command's flags and the optional tileserve.yaml file.
package config

import (
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort  = 8000
	DefaultHost  = "localhost"
	DefaultIndex = "index.html"
	DefaultDelay = time.Second
)

// Config holds everything the serve command needs. Values are resolved in
// order: defaults, then tileserve.yaml, then flags, then the positional port.
type Config struct {
	Host        string
	Port        int
	Dir         string
	Index       string
	Delay       time.Duration
	OpenBrowser bool
	Watch       bool
	Markdown    bool
	Compress    bool
}

// fileConfig mirrors Config for yaml unmarshalling. Delay is a string so the
// file can say "1s" or "500ms"; Open is a pointer so an absent key keeps the
// default of true.
type fileConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Dir      string `yaml:"dir"`
	Index    string `yaml:"index"`
	Delay    string `yaml:"delay"`
	Open     *bool  `yaml:"open"`
	Watch    bool   `yaml:"watch"`
	Markdown bool   `yaml:"markdown"`
	Compress bool   `yaml:"compress"`
}

// Load resolves the configuration from the given command-line arguments.
func Load(args []string) *Config {
	cfg := &Config{
		Host:        DefaultHost,
		Port:        DefaultPort,
		Dir:         ".",
		Index:       DefaultIndex,
		Delay:       DefaultDelay,
		OpenBrowser: true,
	}

	cfg.applyFile("tileserve.yaml")

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	host := fs.String("host", cfg.Host, "The host/IP to bind to")
	port := fs.Int("port", cfg.Port, "The port to listen on")
	dir := fs.String("dir", cfg.Dir, "Directory to serve")
	index := fs.String("index", cfg.Index, "Entry file the browser opens")
	delay := fs.Duration("delay", cfg.Delay, "Delay before opening the browser")
	noBrowser := fs.Bool("no-browser", !cfg.OpenBrowser, "Do not open a browser")
	watch := fs.Bool("watch", cfg.Watch, "Enable live reload via /events")
	markdown := fs.Bool("markdown", cfg.Markdown, "Render .md files as HTML previews")
	compress := fs.Bool("compress", cfg.Compress, "Minify HTML/CSS/JS responses")

	_ = fs.Parse(args)

	cfg.Host = *host
	cfg.Port = *port
	cfg.Dir = *dir
	cfg.Index = *index
	cfg.Delay = *delay
	cfg.OpenBrowser = !*noBrowser
	cfg.Watch = *watch
	cfg.Markdown = *markdown
	cfg.Compress = *compress

	// A bare numeric argument is accepted as the port, matching
	// `tileserve 8001`.
	if fs.NArg() > 0 {
		if p, err := strconv.Atoi(fs.Arg(0)); err == nil {
			cfg.Port = p
		} else {
			log.Printf("Ignoring non-numeric port argument %q", fs.Arg(0))
		}
	}

	return cfg
}

func (c *Config) applyFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		log.Printf("Ignoring %s: %v", path, err)
		return
	}

	if fc.Host != "" {
		c.Host = fc.Host
	}
	if fc.Port != 0 {
		c.Port = fc.Port
	}
	if fc.Dir != "" {
		c.Dir = fc.Dir
	}
	if fc.Index != "" {
		c.Index = fc.Index
	}
	if fc.Delay != "" {
		if d, err := time.ParseDuration(fc.Delay); err == nil {
			c.Delay = d
		} else {
			log.Printf("Ignoring delay %q in %s: %v", fc.Delay, path, err)
		}
	}
	if fc.Open != nil {
		c.OpenBrowser = *fc.Open
	}
	c.Watch = fc.Watch
	c.Markdown = fc.Markdown
	c.Compress = fc.Compress
}
