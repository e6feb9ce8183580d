// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/pzmm/pzmm/cmd/pzmm"

func main() {
	cmd.Execute()
}
