package main

import (
	_ "github.com/joho/godotenv/autoload" // 自动加载 .env

	"github.com/purpose168/floatchat-cn/internal/cmd"
)

func main() {
	cmd.Execute()
}
