package main

var (
	botToken     string
	botTokenFile string
)

const (
	flagToken     = "token"
	flagTokenFile = "token-file"
	flagOutput    = "output"
)
