package config

const (
	defaultBind                 = "127.0.0.1:8473"
	defaultDataDir              = "~/.local/share/courses"
	defaultLogDir               = "~/.local/share/courses/logs"
	defaultLogLevel             = "info"
	defaultLogFormat            = "console"
	defaultClassifierBaseURL    = "https://api.openai.com/v1/chat/completions"
	defaultClassifierModel      = "meta-llama/llama-3.3-70b-instruct"
	defaultAssignTimeoutSeconds = 10
	defaultImportTimeoutSeconds = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind:    defaultBind,
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Classifier: Classifier{
			BaseURL:              defaultClassifierBaseURL,
			Model:                defaultClassifierModel,
			AssignTimeoutSeconds: defaultAssignTimeoutSeconds,
			ImportTimeoutSeconds: defaultImportTimeoutSeconds,
		},
		Auth: Auth{
			Required: true,
		},
	}
}
