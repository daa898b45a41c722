package version

import "fmt"

const Version = "0.2.0"

func Run() {
	fmt.Printf("tileserve %s\n", Version)
}
