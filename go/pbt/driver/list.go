// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var ListCmd = AddCommonFlags(cli.Command{
	Action: doList,
	Name:   "list",
	Usage:  "List all self-check properties by name",
	Flags: []cli.Flag{
		filterFlag,
	},
})

func doList(context *cli.Context) error {
	filter, err := filterFlag.Fetch(context)
	if err != nil {
		return err
	}
	for _, selfCheck := range filterSelfChecks(selfChecks, filter) {
		fmt.Fprintln(context.App.Writer, selfCheck.name)
	}
	return nil
}
