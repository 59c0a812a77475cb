package main

import (
	formatter "github.com/bluexlab/logrus-formatter"
	"github.com/openebl/leafca/pkg/ca_server/cli"
)

func main() {
	formatter.InitLogger()
	app := cli.App{}
	app.Run()
}
