package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/geoarb/internal/domain"
)

// Fuentes de venues soportadas.
const (
	SourceJSON   = "json"
	SourceSQLite = "sqlite"
)

// ErrInvalidConfig envuelve cualquier fallo de Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config es la configuración completa del simulador.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Scanner    ScannerConfig    `yaml:"scanner"`
	History    HistoryConfig    `yaml:"history"`
	Colocation ColocationConfig `yaml:"colocation"`
	Venues     VenuesConfig     `yaml:"venues"`
	Log        LogConfig        `yaml:"log"`
}

// SimulationConfig controla el feed sintético y el ritmo del engine.
type SimulationConfig struct {
	TickMillis         int     `yaml:"tick_ms"`
	Symbol             string  `yaml:"symbol"`
	BasePrice          float64 `yaml:"base_price"`
	Volatility         float64 `yaml:"volatility"`      // desviación típica del shock global por tick
	BaseSpreadBps      float64 `yaml:"base_spread_bps"` // spread medio bid/ask
	Seed               int64   `yaml:"seed"`            // 0 = semilla aleatoria
	RecordEvery        int     `yaml:"record_every"`
	AutoInject         bool    `yaml:"auto_inject"`
	InjectEverySeconds float64 `yaml:"inject_every_seconds"`
	InjectMaxPercent   float64 `yaml:"inject_max_percent"`
}

// ScannerConfig controla la evaluación y el filtrado de oportunidades.
type ScannerConfig struct {
	MinProfitBps      float64 `yaml:"min_profit_bps"`
	FeePercent        float64 `yaml:"fee_percent"`      // por pata
	SlippagePercent   float64 `yaml:"slippage_percent"` // solo pata de compra
	WindowMs          float64 `yaml:"window_ms"`
	Medium            string  `yaml:"medium"` // fiber | microwave | satellite
	TopN              int     `yaml:"top_n"`
	RequireExecutable bool    `yaml:"require_executable"`
	MinNetProfit      float64 `yaml:"min_net_profit"`
	Workers           int     `yaml:"workers"` // 0 = NumCPU*2
}

// HistoryConfig controla el buffer de snapshots en memoria.
type HistoryConfig struct {
	Capacity        int `yaml:"capacity"`
	WindowSnapshots int `yaml:"window_snapshots"` // ventana para las estadísticas
}

// ColocationConfig lista los venues objetivo del optimizador.
type ColocationConfig struct {
	Targets []string `yaml:"targets"`
	Top     int      `yaml:"top"`
}

// VenuesConfig indica de dónde se carga el catálogo.
type VenuesConfig struct {
	Source string `yaml:"source"` // json | sqlite
	Path   string `yaml:"path"`   // fichero JSON o base SQLite
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Default devuelve la configuración usada cuando el YAML omite una clave.
func Default() Config {
	return Config{
		Simulation: SimulationConfig{
			TickMillis:         1000,
			Symbol:             "BTC/USD",
			BasePrice:          50000,
			Volatility:         0.0002,
			BaseSpreadBps:      2,
			RecordEvery:        1,
			InjectEverySeconds: 3,
			InjectMaxPercent:   1,
		},
		Scanner: ScannerConfig{
			MinProfitBps:      5,
			FeePercent:        0.1,
			SlippagePercent:   0.05,
			WindowMs:          200,
			Medium:            "fiber",
			TopN:              10,
			RequireExecutable: true,
		},
		History: HistoryConfig{
			Capacity:        600,
			WindowSnapshots: 60,
		},
		Colocation: ColocationConfig{Top: 5},
		Venues: VenuesConfig{
			Source: SourceJSON,
			Path:   "data/venues.json",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las claves ausentes conservan el valor de Default; las variables de entorno
// sobreescriben ambos.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

// Parse aplica el YAML sobre Default, luego entorno y saneado.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TickInterval devuelve el intervalo del engine como time.Duration.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Simulation.TickMillis) * time.Millisecond
}

// InjectEvery devuelve la cadencia de inyección automática.
func (c *Config) InjectEvery() time.Duration {
	return time.Duration(c.Simulation.InjectEverySeconds * float64(time.Second))
}

// EngineSeed deriva la semilla del engine a partir de simulation.seed para que
// la elección de shocks no replique el random walk del generador.
// 0 sigue significando "sembrar desde el reloj".
func (c *Config) EngineSeed() int64 {
	seed := c.Simulation.Seed
	if seed == 0 {
		return 0
	}
	if seed+1 == 0 {
		return 1
	}
	return seed + 1
}

// Validate rechaza valores que el resto del programa no puede interpretar.
func (c *Config) Validate() error {
	switch c.Venues.Source {
	case SourceJSON, SourceSQLite:
	default:
		return fmt.Errorf("%w: venues.source %q (want json|sqlite)", ErrInvalidConfig, c.Venues.Source)
	}
	if _, err := domain.ParseMedium(c.Scanner.Medium); err != nil {
		return fmt.Errorf("%w: scanner.medium: %w", ErrInvalidConfig, err)
	}
	if c.Scanner.FeePercent < 0 || c.Scanner.SlippagePercent < 0 {
		return fmt.Errorf("%w: negative fee or slippage", ErrInvalidConfig)
	}
	if c.Simulation.BasePrice <= 0 {
		return fmt.Errorf("%w: simulation.base_price must be > 0", ErrInvalidConfig)
	}
	return nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("GEOARB_VENUES"); v != "" {
		cfg.Venues.Path = v
	}
	if v := os.Getenv("GEOARB_VENUE_SOURCE"); v != "" {
		cfg.Venues.Source = v
	}
	if v := os.Getenv("GEOARB_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: GEOARB_SEED %q: %v", ErrInvalidConfig, v, err)
		}
		cfg.Simulation.Seed = seed
	}
	return nil
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	def := Default()
	if cfg.Simulation.TickMillis <= 0 {
		cfg.Simulation.TickMillis = def.Simulation.TickMillis
	}
	if cfg.Simulation.Symbol == "" {
		cfg.Simulation.Symbol = def.Simulation.Symbol
	}
	if cfg.Simulation.RecordEvery <= 0 {
		cfg.Simulation.RecordEvery = def.Simulation.RecordEvery
	}
	if cfg.Simulation.InjectEverySeconds <= 0 {
		cfg.Simulation.InjectEverySeconds = def.Simulation.InjectEverySeconds
	}
	if cfg.Scanner.Medium == "" {
		cfg.Scanner.Medium = def.Scanner.Medium
	}
	if cfg.History.Capacity <= 0 {
		cfg.History.Capacity = def.History.Capacity
	}
	if cfg.History.WindowSnapshots <= 0 {
		cfg.History.WindowSnapshots = def.History.WindowSnapshots
	}
	if cfg.Colocation.Top <= 0 {
		cfg.Colocation.Top = def.Colocation.Top
	}
	if cfg.Venues.Source == "" {
		cfg.Venues.Source = def.Venues.Source
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
