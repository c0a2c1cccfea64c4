package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Question struct {
		BaseURL string
	}
	Collab struct {
		BaseURL string
	}
	Match struct {
		QueueTTLSeconds int
		CacheTTLSeconds int
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	JWT struct {
		Secret string
	}
}

var C Config

func Load() {
	viper.SetDefault("server.port", ":3005")
	viper.SetDefault("question.baseURL", "http://question_service:3002")
	viper.SetDefault("collab.baseURL", "http://collaboration_service:3003")
	// 队列 TTL 必须大于客户端轮询间隔（约 1s），缓存 TTL 同理
	viper.SetDefault("match.queueTTLSeconds", 20)
	viper.SetDefault("match.cacheTTLSeconds", 5)
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "")

	_ = viper.BindEnv("question.baseURL", "QUESTION_SERVICE_URL")
	_ = viper.BindEnv("collab.baseURL", "COLLABORATION_SERVICE_URL")
	_ = viper.BindEnv("redis.addr", "REDIS_ADDR")
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("server.port", "PORT")

	viper.SetConfigFile("config/config.yaml")
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("config file not loaded (%v), using defaults/env", err)
	}
	if err := viper.Unmarshal(&C); err != nil {
		log.Fatalf("Failed to parse config: %v", err)
	}
}
