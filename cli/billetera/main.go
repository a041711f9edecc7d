package main

import (
	"os"

	billeteracmder "github.com/papercomputeco/billetera/cmd/billetera"
)

func main() {
	cmd := billeteracmder.NewBilleteraCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
