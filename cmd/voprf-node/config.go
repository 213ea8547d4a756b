package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/voprf-id/node/config"
	"github.com/voprf-id/node/internal"
)

const (
	defaultNetwork         = "sep"
	defaultAPIHost         = "0.0.0.0"
	defaultAPIPort         = 8080
	defaultLogLevel        = "info"
	defaultLogOutput       = "stdout"
	defaultKeyPath         = "./private_key.txt"
	defaultVerifierBinary  = "bb"
	defaultVerifierVK      = "./target/vk"
	defaultVerifierTimeout = 30 * time.Second
	defaultVerifierWorkers = 4
)

// Version is the build version, set at build time with -ldflags.
var Version = internal.Version

// loadConfig loads configuration from flags, environment variables, and
// defaults: flags bound into viper, VOPRF_-prefixed environment
// variables, defaults set before parsing.
func loadConfig() (*config.Config, error) {
	v := viper.New()

	v.SetDefault("api.host", defaultAPIHost)
	v.SetDefault("api.port", defaultAPIPort)
	v.SetDefault("key.path", defaultKeyPath)
	v.SetDefault("force", false)
	v.SetDefault("verifier.binary", defaultVerifierBinary)
	v.SetDefault("verifier.vk", defaultVerifierVK)
	v.SetDefault("verifier.timeout", defaultVerifierTimeout)
	v.SetDefault("verifier.concurrency", defaultVerifierWorkers)
	v.SetDefault("web3.network", defaultNetwork)
	v.SetDefault("web3.rpc", "")
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)

	flag.StringP("api.host", "h", defaultAPIHost, "API host")
	flag.IntP("api.port", "p", defaultAPIPort, "API port")
	flag.String("key.path", defaultKeyPath, "path to the node's persisted private key")
	flag.Bool("force", false, "initialize only: overwrite an existing key")
	flag.String("verifier.binary", defaultVerifierBinary, "external ZK proof verifier binary")
	flag.String("verifier.vk", defaultVerifierVK, "path to the circuit verifying key")
	flag.Duration("verifier.timeout", defaultVerifierTimeout, "timeout for a single proof verification")
	flag.Int("verifier.concurrency", defaultVerifierWorkers, "maximum concurrent proof verifications")
	flag.StringP("web3.network", "n", defaultNetwork, fmt.Sprintf("registry network %v", config.AvailableNetworks))
	flag.String("web3.rpc", "", "web3 RPC endpoint used to reach the registry")
	flag.String("web3.privkey", "", "Ethereum private key used to sign registry transactions")
	flag.String("web3.registry", "", "custom registry contract address (overrides network default)")
	flag.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error)")
	flag.StringP("log.output", "o", defaultLogOutput, "log output (stdout, stderr or filepath)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "voprf-node v%s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: voprf-node <initialize|serve> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables are also available with the same name as flags,\n")
		fmt.Fprintf(os.Stderr, "  except for dots (.) which are replaced by underscores (_).\n")
		fmt.Fprintf(os.Stderr, "  For example, VOPRF_API_HOST or VOPRF_WEB3_PRIVKEY\n")
	}

	flag.CommandLine.SortFlags = false
	flag.Parse()

	v.SetEnvPrefix("VOPRF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flag.CommandLine); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	cfg := &config.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// validateConfig validates the loaded configuration against the fields
// every subcommand needs.
func validateConfig(cfg *config.Config) error {
	validNetwork := false
	for _, n := range config.AvailableNetworks {
		if cfg.Web3.Network == n {
			validNetwork = true
			break
		}
	}
	if !validNetwork {
		return fmt.Errorf("invalid network %s, available networks: %v", cfg.Web3.Network, config.AvailableNetworks)
	}
	return nil
}

// registryContractAddress resolves the registry contract address for
// cfg.Web3.Network, honoring an explicit override.
func registryContractAddress(cfg *config.Config) (string, error) {
	if cfg.Web3.RegistryAddr != "" {
		return cfg.Web3.RegistryAddr, nil
	}
	networkConfig, ok := config.DefaultConfig[cfg.Web3.Network]
	if !ok {
		return "", fmt.Errorf("no registry configuration found for network %s", cfg.Web3.Network)
	}
	return networkConfig.RegistrySmartContract, nil
}
