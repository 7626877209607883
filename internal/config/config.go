package config

type Config struct {
	BaseURL     string
	HttpPort    int
	BotUsername string
	Db          struct {
		Dsn         string
		Automigrate bool
	}
	Admin struct {
		ApiKey string
	}
	Bot struct {
		Token string
	}
	RedisServer   string
	Notifications struct {
		Email string
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	KafkaServers string
}
