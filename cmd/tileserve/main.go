package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"tileserve/internal/server"
	"tileserve/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "serve":
			args = args[1:]
		case "version":
			version.Run()
			return
		case "help":
			printUsage()
			return
		default:
			// A flag or a bare port goes straight to serve; anything else
			// is an unknown command.
			if !strings.HasPrefix(args[0], "-") {
				if _, err := strconv.Atoi(args[0]); err != nil {
					fmt.Printf("Unknown command: %s\n", args[0])
					printUsage()
					os.Exit(1)
				}
			}
		}
	}

	server.Run(ctx, args)
}

func printUsage() {
	fmt.Println("Usage: tileserve [command] [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  serve [flags] [port]   Serve the current directory (default)")
	fmt.Println("  <port>                 Shorthand for serve on that port")
	fmt.Println("  version                Print the version")
	fmt.Println("  help                   Show this help message")
	fmt.Println("\nFlags for serve:")
	fmt.Println("  -host       Host/IP to bind to (default localhost)")
	fmt.Println("  -port       Port to listen on (default 8000)")
	fmt.Println("  -dir        Directory to serve (default .)")
	fmt.Println("  -index      Entry file the browser opens (default index.html)")
	fmt.Println("  -delay      Delay before opening the browser (default 1s)")
	fmt.Println("  -no-browser Do not open a browser")
	fmt.Println("  -watch      Enable live reload via /events")
	fmt.Println("  -markdown   Render .md files as HTML previews")
	fmt.Println("  -compress   Minify HTML/CSS/JS responses")
}
