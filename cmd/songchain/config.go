package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"songchain/internal/chain"
	"songchain/internal/console"
	"songchain/internal/logging"
	"songchain/internal/lookup"
)

type Config struct {
	musicbrainzURL string
	userAgent      string
	lookupTimeout  time.Duration
	rps            float64
	cacheSize      int
	cacheTTL       time.Duration
	noColor        bool
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if c.lookupTimeout <= 0 {
		return fmt.Errorf("invalid lookup timeout (must be positive): %s", c.lookupTimeout)
	}
	if c.rps < 0 {
		return fmt.Errorf("invalid requests per second (must not be negative): %v", c.rps)
	}
	if c.cacheSize > 0 && c.cacheTTL <= 0 {
		return errors.New("--cache-ttl must be positive when the cache is enabled")
	}
	return nil
}

func (c *Config) lookupConfig() lookup.Config {
	lc := lookup.DefaultConfig()
	lc.BaseURL = c.musicbrainzURL
	lc.UserAgent = c.userAgent
	lc.Timeout = c.lookupTimeout
	lc.RequestsPerSecond = c.rps
	lc.CacheSize = c.cacheSize
	lc.CacheTTL = c.cacheTTL
	return lc
}

func (c *Config) colorDisabled() bool {
	return c.noColor || os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" || !term.IsTerminal(int(os.Stdout.Fd()))
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SONGCHAIN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "songchain",
		Short:         "Play the song chain game in your terminal, with songs checked against MusicBrainz.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return play(cmd, cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	defaults := lookup.DefaultConfig()
	fs.IntVar(&cfg.cacheSize, "cache-size", defaults.CacheSize, "number of lookups to remember, 0 to disable (env: SONGCHAIN_CACHE_SIZE)")
	fs.DurationVar(&cfg.cacheTTL, "cache-ttl", defaults.CacheTTL, "how long lookups are remembered (env: SONGCHAIN_CACHE_TTL)")
	fs.DurationVar(&cfg.lookupTimeout, "lookup-timeout", chain.DefaultLookupTimeout, "time allowed for one song lookup (env: SONGCHAIN_LOOKUP_TIMEOUT)")
	fs.StringVar(&cfg.musicbrainzURL, "musicbrainz-url", defaults.BaseURL, "MusicBrainz web service root (env: SONGCHAIN_MUSICBRAINZ_URL)")
	fs.BoolVar(&cfg.noColor, "no-color", false, "disable colored output (env: SONGCHAIN_NO_COLOR)")
	fs.Float64Var(&cfg.rps, "rps", defaults.RequestsPerSecond, "maximum MusicBrainz requests per second, 0 for no limit (env: SONGCHAIN_RPS)")
	fs.StringVar(&cfg.userAgent, "user-agent", defaults.UserAgent, "User-Agent sent to MusicBrainz (env: SONGCHAIN_USER_AGENT)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: SONGCHAIN_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: SONGCHAIN_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("songchain v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func play(cmd *cobra.Command, cfg *Config) error {
	logging.SetVerbose(cfg.verbose)

	searcher, err := lookup.New(cfg.lookupConfig())
	if err != nil {
		return err
	}
	logging.Debug("Using MusicBrainz at %s as %q", cfg.musicbrainzURL, cfg.userAgent)

	engine := chain.NewEngine(searcher, chain.WithLookupTimeout(cfg.lookupTimeout))
	out := console.NewOutput(cmd.OutOrStdout(), console.Options{NoColor: cfg.colorDisabled()})

	return console.NewGame(engine, cmd.InOrStdin(), out).Run(cmd.Context())
}
