// Command alarm-clockd runs the alarm clock daemon.
package main

import "github.com/oshokin/alarm-clock/cmd/alarm-clockd/cmd"

func main() {
	cmd.Execute()
}
