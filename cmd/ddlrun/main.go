package main

import (
	"github.com/ddlrun/ddlrun/cmd/ddlrun/internal"
)

func main() {
	internal.Execute()
}
