package config

// Centralized default values for configuration

const (
	DefaultMainnet     = "mainnet"
	DefaultTestnet     = "testnet"
	DefaultJSONSuffix  = "_validators.json"
	DefaultCSVSuffix   = "_validator_key_name_map.csv"
	DefaultLogLevel    = "info"
	DefaultLogEnv      = "dev"
	DefaultEnvPrefix   = "VALIDATORS"
	DefaultServiceName = "validators-gen"
)
