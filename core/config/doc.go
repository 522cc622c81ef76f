// Package config resolves which model serves an invocation and loads the
// process configuration.
//
// Model selection has two levels. A [RunConfig] attached to the context with
// [WithRunConfig] may name a model per agent (and a run-wide model); when it
// yields nothing complete, the [Resolver] default applies. The default itself
// is always complete: missing parts are filled from [DefaultModel].
//
// [Load] reads an optional YAML file, then a .env file through godotenv, then
// environment overrides, in that order of increasing precedence.
package config
