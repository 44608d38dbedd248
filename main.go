package main

import (
	"github.com/yupinghuang/casadata-sync/cmd"
	"github.com/yupinghuang/casadata-sync/cmd/util"
)

func main() {
	defer util.HandlePanic()
	cmd.Execute()
}
