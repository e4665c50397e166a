// Command alarm-clock manages alarms of a running alarm-clockd daemon.
package main

import "github.com/oshokin/alarm-clock/cmd/alarm-clock/cmd"

func main() {
	cmd.Execute()
}
