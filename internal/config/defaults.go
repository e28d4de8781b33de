package config

const (
	defaultProcessDir         = "~/process_folder"
	defaultLogDir             = "~/.local/share/paperflow/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogRetentionDays   = 60
	defaultPaperlessAPIPath   = "/api/documents/post_document/"
	defaultPaperlessTimeout   = 10
	defaultSMTPPort           = 465
	defaultEmailTimeout       = 30
	defaultNotifyTimeout      = 10
	defaultMaxParallel        = 1
	defaultDeliveryTimeout    = 60
	defaultPassInterval       = 300
	defaultWatchDebounce      = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProcessDir: defaultProcessDir,
			LogDir:     defaultLogDir,
		},
		Paperless: Paperless{
			APIPath:        defaultPaperlessAPIPath,
			RequestTimeout: defaultPaperlessTimeout,
		},
		Email: Email{
			SMTPPort:       defaultSMTPPort,
			RequestTimeout: defaultEmailTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			PassStarted:    false,
			PassCompleted:  true,
			Errors:         true,
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Workflow: Workflow{
			MaxParallel:     defaultMaxParallel,
			DeliveryTimeout: defaultDeliveryTimeout,
			PassInterval:    defaultPassInterval,
			WatchDebounce:   defaultWatchDebounce,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
