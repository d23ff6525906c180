// Package cmd implements the chanplate subcommands.
//
// Every command is a struct whose fields are kong flags and arguments and
// whose Run method receives the application context. Results are written to
// the writer stored with [WithOutput], or os.Stdout.
//
//	expand   print every generated name (text, json or yaml)
//	preview  print the first names, numbered
//	check    print how each template is classified
//	plan     create, remove or clone channels in a local server state
//	init     write the configuration file
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// StateIdentifier is the kong variable identifier containing the path to
	// the default server state file used by the plan commands.
	StateIdentifier = "state"
)
