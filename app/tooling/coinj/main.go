// This program is the command line front end of the consensus core.
package main

import "github.com/coinjecture/core/app/tooling/coinj/cmd"

func main() {
	cmd.Execute()
}
