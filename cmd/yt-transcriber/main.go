package main

import "github.com/ytget/yt-transcriber/cmd/yt-transcriber/cmd"

func main() {
	cmd.Execute()
}
