package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"biblioteca/dbroute"
	"biblioteca/dbroute/auth"
	"biblioteca/dbroute/util/str"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment keys. Per node keys are DB_<NODE>_<FIELD>.
const (
	KeyNodes              = "DB_NODES"
	KeyPrimary            = "DB_PRIMARY"
	KeyConnectAttempts    = "DB_CONNECT_ATTEMPTS"
	KeyConnectBackoff     = "DB_CONNECT_BACKOFF"
	KeyConnectTimeout     = "DB_CONNECT_TIMEOUT"
	KeyFragmentKeys       = "DB_FRAGMENT_KEYS"
	KeyFragmentExpression = "DB_FRAGMENT_EXPRESSION"
	KeyFragmentRules      = "DB_FRAGMENT_RULES"
	KeyLogLevel           = "LOG_LEVEL"
	KeyTrace              = "DB_TRACE"
	KeyAuthAccounts       = "AUTH_ACCOUNTS"
)

const (
	DefaultNodes    = "FIS,FIQA"
	DefaultPrimary  = "FIS"
	DefaultPort     = 1433
	DefaultUser     = "sa"
	DefaultLogLevel = "info"
)

// defaultServers hosts of the original deployment
var defaultServers = map[string]string{
	"FIS":  "WIN-PHDDNKD39M9",
	"FIQA": "Slim",
}

// DBConfig database config of one node
type DBConfig struct {
	Name     string
	DBType   string
	Server   string
	Port     int
	Database string
	User     string
	Password string
	DSN      string
}

// Config everything needed to assemble the data layer
type Config struct {
	// Nodes in DB_NODES order
	Nodes          []DBConfig
	Primary        string
	Connect        dbroute.ConnectPolicy
	ConnectTimeout time.Duration
	FragmentRules  []dbroute.FragmentRule
	LogLevel       string
	Trace          bool
	Accounts       []auth.Account
}

func nodeKey(node, field string) string {
	return "DB_" + node + "_" + field
}

// Load reads the configuration from the environment, after seeding it from the
// given .env files. Variables already set win over the files. Load never fails:
// anything unusable falls back to its default and is reported as a warning.
func Load(envFiles ...string) (cfg *Config, warnings []string) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			warnings = append(warnings, fmt.Sprintf("env file %q: %v", f, err))
		}
	}

	parser := viper.New()
	parser.AutomaticEnv()
	parser.SetDefault(KeyNodes, DefaultNodes)
	parser.SetDefault(KeyPrimary, DefaultPrimary)
	parser.SetDefault(KeyConnectAttempts, 1)
	parser.SetDefault(KeyConnectBackoff, time.Duration(0))
	parser.SetDefault(KeyConnectTimeout, "0")
	parser.SetDefault(KeyFragmentKeys, strings.Join(dbroute.DefaultFragmentKeys, ","))
	parser.SetDefault(KeyFragmentExpression, dbroute.DefaultFragmentExpression)
	parser.SetDefault(KeyLogLevel, DefaultLogLevel)
	parser.SetDefault(KeyTrace, false)

	cfg = &Config{
		Primary: dbroute.NormalizeNodeName(parser.GetString(KeyPrimary)),
		Connect: dbroute.ConnectPolicy{
			Attempts: parser.GetInt(KeyConnectAttempts),
			Backoff:  parser.GetDuration(KeyConnectBackoff),
		},
		LogLevel:       parser.GetString(KeyLogLevel),
		Trace:          parser.GetBool(KeyTrace),
	}
	timeout, warning := parseConnectTimeout(parser.GetString(KeyConnectTimeout))
	if warning != "" {
		warnings = append(warnings, warning)
	}
	cfg.ConnectTimeout = timeout
	if cfg.Connect.Attempts < 1 {
		warnings = append(warnings, fmt.Sprintf("%s must be at least 1, using 1", KeyConnectAttempts))
		cfg.Connect.Attempts = 1
	}

	for _, name := range splitList(parser.GetString(KeyNodes)) {
		name = dbroute.NormalizeNodeName(name)
		server, ok := defaultServers[name]
		if !ok {
			server = "localhost"
		}
		parser.SetDefault(nodeKey(name, "TYPE"), dbroute.SQLServer)
		parser.SetDefault(nodeKey(name, "SERVER"), server)
		parser.SetDefault(nodeKey(name, "PORT"), DefaultPort)
		parser.SetDefault(nodeKey(name, "NAME"), name)
		parser.SetDefault(nodeKey(name, "USER"), DefaultUser)
		cfg.Nodes = append(cfg.Nodes, DBConfig{
			Name:     name,
			DBType:   parser.GetString(nodeKey(name, "TYPE")),
			Server:   parser.GetString(nodeKey(name, "SERVER")),
			Port:     parser.GetInt(nodeKey(name, "PORT")),
			Database: parser.GetString(nodeKey(name, "NAME")),
			User:     parser.GetString(nodeKey(name, "USER")),
			Password: parser.GetString(nodeKey(name, "PASSWORD")),
			DSN:      parser.GetString(nodeKey(name, "DSN")),
		})
	}

	if raw := parser.GetString(KeyFragmentRules); raw != "" {
		if err := str.ConvertStrToStruct(raw, &cfg.FragmentRules); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s ignored: %v", KeyFragmentRules, err))
			cfg.FragmentRules = nil
		}
	}
	if len(cfg.FragmentRules) == 0 {
		cfg.FragmentRules = []dbroute.FragmentRule{{
			Parameter:  dbroute.DefaultFragmentParameter,
			Expression: parser.GetString(KeyFragmentExpression),
			Keys:       splitList(parser.GetString(KeyFragmentKeys)),
		}}
	}

	if raw := parser.GetString(KeyAuthAccounts); raw != "" {
		if err := str.ConvertStrToStruct(raw, &cfg.Accounts); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s ignored: %v", KeyAuthAccounts, err))
			cfg.Accounts = nil
		}
	}
	return cfg, warnings
}

// Cluster node registry described by the configuration
func (c *Config) Cluster() dbroute.ClusterConfig {
	timeout := int((c.ConnectTimeout + time.Second - 1) / time.Second)
	nodes := make([]dbroute.NodeConfig, 0, len(c.Nodes))
	for _, n := range c.Nodes {
		nodes = append(nodes, dbroute.NodeConfig{
			Name:           n.Name,
			DBType:         n.DBType,
			Server:         n.Server,
			Port:           n.Port,
			Database:       n.Database,
			User:           n.User,
			Password:       n.Password,
			DSN:            n.DSN,
			ConnectTimeout: timeout,
		})
	}
	return dbroute.NewClusterConfig(c.Primary, nodes...)
}

// parseConnectTimeout whole seconds ("30") or a duration ("30s", "1m"). Drivers
// take seconds, so a positive value under a second is raised to one second.
func parseConnectTimeout(raw string) (time.Duration, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ""
	}
	d, err := time.ParseDuration(raw)
	if n, nerr := strconv.Atoi(raw); nerr == nil {
		d, err = time.Duration(n) * time.Second, nil
	}
	switch {
	case err != nil:
		return 0, fmt.Sprintf("%s %q ignored: %v", KeyConnectTimeout, raw, err)
	case d < 0:
		return 0, fmt.Sprintf("%s %q ignored: negative", KeyConnectTimeout, raw)
	case d > 0 && d < time.Second:
		return time.Second, fmt.Sprintf("%s %q is under one second, using 1s", KeyConnectTimeout, raw)
	}
	return d, ""
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
