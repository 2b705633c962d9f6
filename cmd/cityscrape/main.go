package main

import (
	"cityscrape/cmd/cityscrape/commands"
	"cityscrape/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
