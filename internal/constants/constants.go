package constants

const (
	// Data layout under the base directory
	DefaultDataFolderName   = "caldera_cli"
	TemplateReposFolderName = "template_repositories"
	DefaultConfigFileName   = "caldera.config.toml"

	// TemplateDescriptorFileName marks a directory as a template root.
	TemplateDescriptorFileName = "template.toml"

	// Default template sources
	DefaultTemplateRepoURL       = "https://github.com/calderanet/wasm-template"
	DefaultTemplateRepoBranch    = "main"
	DefaultProjectTemplateFolder = "project_templates"
	DefaultWasmTemplateFolder    = "wasm_templates"

	// Workspace layout
	DefaultTemplatesSubDir = "templates"

	// Limits
	MaxWasmBinarySize = 5 * 1024 * 1024

	// Wallet daemon defaults
	DefaultWalletDaemonURL = "http://127.0.0.1:9000/json_rpc"
	DefaultFeePerGram      = 5

	DefaultEnvFileName = ".env"

	// Logging
	DefaultLogLevel = "info"
)
