// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"net"
)

const snippetFormat = `Run the following snippet in the developer console in any Website.

        fetch("http://%s", {
            method: 'POST',
            mode: 'cors',
            headers: { 'Content-Type': 'application/json' },
            body: JSON.stringify({
                jsonrpc: '2.0',
                method: 'say_hello',
                id: 1
            })
        }).then(res => {
            console.log("Response:", res);
            return res.text()
        }).then(body => {
            console.log("Response Body:", body)
        });
`

// printSnippet writes browser console instructions for calling say_hello at addr
func printSnippet(out io.Writer, addr net.Addr) error {
	_, err := fmt.Fprintf(out, snippetFormat, addr)
	return err
}
