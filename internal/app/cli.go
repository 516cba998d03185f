package app

import "github.com/spf13/pflag"

// RegisterFlags registers all CLI flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("root", "r", "", "Vault directory to search")
	flags.Bool("include-hidden", false, "Include hidden files and directories")
	flags.StringSliceP("text-types", "x", nil, "Extensions whose content is searched (comma-separated)")
	flags.StringP("fuzzy-engine", "e", "", "Fuzzy path engine: native or sahilm")
	flags.StringP("strategy", "s", "", "Content search strategy: sequential or concurrent")
	flags.IntP("workers", "w", 0, "Concurrent content readers")
	flags.Duration("timeout", 0, "Time budget for a content search (0 disables)")
	flags.Duration("settle-delay", 0, "How long the view command waits before collecting results")
	flags.IntP("limit", "n", 0, "Maximum results to print (0 prints all)")
	flags.StringP("log-level", "l", "", "Log level: debug, info, warn or error")
	flags.Int("cache-size", 0, "Content cache entries (0 disables the cache)")
	flags.Int64("max-file-size", 0, "Maximum bytes read per file")
}
