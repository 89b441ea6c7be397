// SPDX-License-Identifier: MPL-2.0

package main

import cmd "capsule-cli/cmd/capsule"

func main() {
	cmd.Execute()
}
