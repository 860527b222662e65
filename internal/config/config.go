// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values
// Validate config

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Omarlsant/job-scraper/internal/browser"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	DefaultConfigPath = "configs/config.yaml"
	DefaultTargetURL  = "https://www.infojobs.net/ofertas-trabajo/frontend"
)

// Database holds the connection settings. They come from the environment only.
type Database struct {
	Driver   string `yaml:"-"`
	Host     string `yaml:"-"`
	Port     int    `yaml:"-"`
	User     string `yaml:"-"`
	Password string `yaml:"-"`
	Name     string `yaml:"-"`
}

// Addr returns host:port.
func (d Database) Addr() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

type Storage struct {
	Table string `yaml:"table"`
	// Schema is the PostgreSQL schema the table lives in.
	Schema string `yaml:"schema"`
}

type Browser struct {
	Headless    bool   `yaml:"headless"`
	Locale      string `yaml:"locale"`
	CookiesFile string `yaml:"cookies_file"`
}

type Delay struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// Selectors is the page-structure coupling of the scraper. It is expected to
// change whenever the job board changes its markup.
type Selectors struct {
	ConsentButton   browser.Selector `yaml:"consent_button"`
	Container       browser.Selector `yaml:"container"`
	Item            browser.Selector `yaml:"item"`
	TitleLink       browser.Selector `yaml:"title_link"`
	Company         browser.Selector `yaml:"company"`
	Location        browser.Selector `yaml:"location"`
	WorkFormat      browser.Selector `yaml:"work_format"`
	PublicationDate browser.Selector `yaml:"publication_date"`
	Description     browser.Selector `yaml:"description"`
	ContractType    browser.Selector `yaml:"contract_type"`
	WorkType        browser.Selector `yaml:"work_type"`
	Salary          browser.Selector `yaml:"salary"`
}

type Config struct {
	Database Database `yaml:"-"`

	TargetURL   string        `yaml:"target_url"`
	MaxJobs     int           `yaml:"max_jobs"`
	WaitTimeout time.Duration `yaml:"wait_timeout"`
	RunTimeout  time.Duration `yaml:"run_timeout"`
	Delay       Delay         `yaml:"delay"`
	Browser     Browser       `yaml:"browser"`
	Storage     Storage       `yaml:"storage"`
	Selectors   Selectors     `yaml:"selectors"`
	//Paths
	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	LockFile      string `yaml:"lock_file"`

	// DryRun prints listings instead of storing them. The database
	// settings are neither required nor validated.
	DryRun bool `yaml:"-"`
}

// MissingEnvError lists required environment variables that are not set.
type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	return "missing environment variables: " + strings.Join(e.Names, ", ")
}

// Lookup reads one environment variable; os.LookupEnv satisfies it.
type Lookup func(key string) (string, bool)

// Load reads .env, the YAML file at path (optional) and the environment.
func Load(path string) (*Config, error) {
	return load(path, false)
}

// LoadDryRun is Load for runs that never open the database.
func LoadDryRun(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, dryRun bool) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	cfg.DryRun = dryRun
	if err := cfg.Resolve(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read loads .env and the YAML file at path on top of Default, without
// looking at the database variables. Log settings are final after Read, so
// a logger can be opened before the rest of the configuration is checked.
func Read(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("SCRAPER_CONFIG")
	}
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// Resolve applies the environment and validates the result.
func (c *Config) Resolve(lookup Lookup) error {
	if err := c.ApplyEnv(lookup); err != nil {
		return err
	}
	return c.Validate()
}

// Default returns the built-in configuration for the InfoJobs frontend search.
func Default() *Config {
	return &Config{
		TargetURL:   DefaultTargetURL,
		MaxJobs:     10,
		WaitTimeout: 15 * time.Second,
		RunTimeout:  10 * time.Minute,
		Delay:       Delay{Min: 2 * time.Second, Max: 4 * time.Second},
		Browser: Browser{
			Headless: false,
			Locale:   "es-ES",
		},
		Storage: Storage{
			Table:  "frontend_jobs",
			Schema: "public",
		},
		Selectors:     DefaultSelectors(),
		LogFile:       "scraper.log",
		LogLevel:      "info",
		ScreenshotDir: "logs/screenshots",
	}
}

// DefaultSelectors matches the InfoJobs offer list markup.
func DefaultSelectors() Selectors {
	descList := `ul[class*="ij-OfferCardContent-description-list"] > li`
	return Selectors{
		ConsentButton:   browser.CSS("#didomi-notice-agree-button"),
		Container:       browser.CSS(`ul[class*="ij-List"]`),
		Item:            browser.CSS(`li[class*="ij-List-item"]`),
		TitleLink:       browser.CSS("h2 a"),
		Company:         browser.CSS("h3 a"),
		Location:        browser.CSS(descList + ":nth-child(1)"),
		WorkFormat:      browser.Selector{CSS: descList, HasText: []string{"Teletrabajo", "Híbrido", "Presencial"}},
		PublicationDate: browser.CSS(`span[class*="ij-FormatterSincedate"]`),
		Description:     browser.CSS(`p[class*="ij-OfferCardContent-description-description"]`),
		ContractType:    browser.Selector{CSS: descList, HasText: []string{"Contrato"}},
		WorkType:        browser.Selector{CSS: descList, HasText: []string{"ornada"}},
		Salary:          browser.CSS(`span[class*="ij-OfferCardContent-description-salary"]`),
	}
}

// RequiredEnv lists the variables a driver cannot run without.
func RequiredEnv(driver string) []string {
	if driver == DriverSQLite {
		return []string{"DB_DATABASE"}
	}
	return []string{"DB_USER", "DB_PASSWORD", "DB_DATABASE"}
}

// ApplyEnv fills Database from the environment and applies overrides.
// Required variables must be set; an empty value (e.g. no password) is allowed.
func (c *Config) ApplyEnv(lookup Lookup) error {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	c.Database.Driver = strings.ToLower(get("DB_DRIVER", DriverMySQL))

	var missing []string
	for _, name := range RequiredEnv(c.Database.Driver) {
		if _, ok := lookup(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 && !c.DryRun {
		return &MissingEnvError{Names: missing}
	}

	c.Database.Host = get("DB_HOST", "localhost")
	port, err := strconv.Atoi(get("DB_PORT", defaultPort(c.Database.Driver)))
	if err != nil {
		return fmt.Errorf("invalid DB_PORT: %w", err)
	}
	c.Database.Port = port
	c.Database.User, _ = lookup("DB_USER")
	c.Database.Password, _ = lookup("DB_PASSWORD")
	c.Database.Name, _ = lookup("DB_DATABASE")

	if v := get("SCRAPER_HEADLESS", ""); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SCRAPER_HEADLESS: %w", err)
		}
		c.Browser.Headless = headless
	}
	c.LogLevel = get("LOG_LEVEL", c.LogLevel)

	return nil
}

func defaultPort(driver string) string {
	if driver == DriverPostgres {
		return "5432"
	}
	return "3306"
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	var errs []error

	if !c.DryRun {
		switch c.Database.Driver {
		case DriverMySQL, DriverPostgres, DriverSQLite:
		default:
			errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver))
		}
		if c.Database.Driver != DriverSQLite && (c.Database.Port <= 0 || c.Database.Port > 65535) {
			errs = append(errs, fmt.Errorf("DB_PORT %d out of range", c.Database.Port))
		}
		if strings.TrimSpace(c.Database.Name) == "" {
			errs = append(errs, errors.New("DB_DATABASE must not be empty"))
		}
	}
	if c.TargetURL == "" {
		errs = append(errs, errors.New("target_url is required"))
	}
	if c.MaxJobs <= 0 {
		errs = append(errs, fmt.Errorf("max_jobs must be positive, got %d", c.MaxJobs))
	}
	if c.WaitTimeout <= 0 {
		errs = append(errs, errors.New("wait_timeout must be positive"))
	}
	if c.Delay.Min < 0 || c.Delay.Min > c.Delay.Max {
		errs = append(errs, fmt.Errorf("delay.min (%s) must be between 0 and delay.max (%s)", c.Delay.Min, c.Delay.Max))
	}
	if c.Storage.Table == "" {
		errs = append(errs, errors.New("storage.table is required"))
	}

	for name, sel := range c.Selectors.named() {
		if strings.TrimSpace(sel.CSS) == "" {
			errs = append(errs, fmt.Errorf("selectors.%s.css is required", name))
		}
	}

	return errors.Join(errs...)
}

func (s Selectors) named() map[string]browser.Selector {
	return map[string]browser.Selector{
		"consent_button":   s.ConsentButton,
		"container":        s.Container,
		"item":             s.Item,
		"title_link":       s.TitleLink,
		"company":          s.Company,
		"location":         s.Location,
		"work_format":      s.WorkFormat,
		"publication_date": s.PublicationDate,
		"description":      s.Description,
		"contract_type":    s.ContractType,
		"work_type":        s.WorkType,
		"salary":           s.Salary,
	}
}
