package banner

import (
	_ "embed"
	"fmt"
	"runtime"
	"strings"
)

//go:embed banner.txt
var banner string

func init() {
	fmt.Printf("%s\n%s %s/%s\n\n", strings.TrimRight(banner, "\n"), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
