// Package config holds the node's deployment-specific constants: per-network
// registry contract addresses and the set of networks this node knows how
// to talk to.
package config

// RegistryConfig holds the on-chain address of the node registry contract
// for a given network.
type RegistryConfig struct {
	// RegistrySmartContract is the address of the append-only registry
	// contract that maps node public keys to registration status.
	RegistrySmartContract string
}

// DefaultConfig contains the default registry contract address by network
// shortname. Placeholder addresses: operators deploying against a real
// registry override them with --web3.registry / VOPRF_WEB3_REGISTRY.
var DefaultConfig = map[string]RegistryConfig{
	"sep": {
		RegistrySmartContract: "0x0000000000000000000000000000000000000000",
	},
	"mainnet": {
		RegistrySmartContract: "0x0000000000000000000000000000000000000000",
	},
}

// AvailableNetworks is the list of network shortnames this node recognizes.
var AvailableNetworks = []string{"sep", "mainnet"}
