// FILE: config.go
// Package main – Runtime configuration for the backtest CLI, adapted from
// the teacher's config.go: a flat Config struct plus a loader that layers
// environment defaults under explicit flags.
package main

// Config holds all runtime knobs for one backtest run.
type Config struct {
	StoreRoot   string
	Symbol      string
	StartDate   string
	EndDate     string
	BucketSecs  int

	InitialCapital      float64
	CommissionRate      float64
	CloseCommissionRate float64
	Slippage            float64
	PartialFillEnabled  bool

	BuyThreshold  float64
	SellThreshold float64
	UseMAFilter   bool
	Seed          int64

	Port int
}

// loadConfigFromEnv mirrors the teacher's loadConfigFromEnv: env-var
// defaults that flag.Parse() in main() then overrides when set explicitly.
func loadConfigFromEnv() Config {
	return Config{
		StoreRoot:           getEnv("STORE_ROOT", "./data"),
		Symbol:              getEnv("SYMBOL", "rb2405"),
		StartDate:           getEnv("START_DATE", ""),
		EndDate:             getEnv("END_DATE", ""),
		BucketSecs:          getEnvInt("BAR_BUCKET_SECS", 60),
		InitialCapital:      getEnvFloat("INITIAL_CAPITAL", 1_000_000),
		CommissionRate:      getEnvFloat("COMMISSION_RATE", 0.0001),
		CloseCommissionRate: getEnvFloat("CLOSE_COMMISSION_RATE", 0.0001),
		Slippage:            getEnvFloat("SLIPPAGE", 0),
		PartialFillEnabled:  getEnvBool("PARTIAL_FILL_ENABLED", false),
		BuyThreshold:        getEnvFloat("BUY_THRESHOLD", 0.55),
		SellThreshold:       getEnvFloat("SELL_THRESHOLD", 0.45),
		UseMAFilter:         getEnvBool("USE_MA_FILTER", true),
		Seed:                int64(getEnvInt("MODEL_SEED", 1)),
		Port:                getEnvInt("PORT", 8080),
	}
}
