/*
 * Author: Markus Stenberg <fingon@iki.fi>
 *
 * Copyright (c) 2019 Markus Stenberg
 *
 * Created:       Mon Feb 18 14:22:17 2019 mstenber
 * Last modified: Fri Feb 22 10:48:36 2019 mstenber
 * Edit time:     52 min
 *
 */

// mavfs is the interactive shell around the fs engine: an mfs>
// prompt, put/get/del/list/df commands, and the host file system as
// byte source (put) and sink (get). The engine itself never touches
// the host file system.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fingon/go-mavfs/blockpool"
	"github.com/fingon/go-mavfs/directory"
	"github.com/fingon/go-mavfs/fs"
)

const prompt = "mfs>"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n\n%s\n\nInteractive MAV file system shell; commands: put get del list df\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	myfs := fs.Fs{}.Init()
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print(prompt)
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		if len(args) > 0 {
			execute(myfs, args)
		}
		fmt.Print(prompt)
	}
	fmt.Println()
}

func execute(myfs *fs.Fs, args []string) {
	switch args[0] {
	case "put":
		put(myfs, args)
	case "get":
		get(myfs, args)
	case "del":
		del(myfs, args)
	case "list":
		list(myfs)
	case "df":
		fmt.Printf("%d bytes free.\n", myfs.GetBytesAvailable())
	default:
		fmt.Printf("%s%s: Command not found\n", prompt, args[0])
	}
}

func report(message string) {
	fmt.Printf("%s%s\n", prompt, message)
}

func put(myfs *fs.Fs, args []string) {
	if len(args) < 2 {
		report("put error: File name missing.")
		return
	}
	name := args[1]
	st, err := os.Stat(name)
	if err != nil {
		report("put error: File not found.")
		return
	}
	f, err := os.Open(name)
	if err != nil {
		report("put error: File not found.")
		return
	}
	defer f.Close()
	err = myfs.Put(name, f, uint64(st.Size()))
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrInvalidName):
		report("put error: Invalid file name.")
	case errors.Is(err, fs.ErrFileTooLarge):
		report("put error: Exceeds maximum supported file size.")
	case errors.Is(err, fs.ErrInsufficientSpace):
		report("put error: Not enough disk space.")
	case errors.Is(err, fs.ErrExists):
		report("put error: File already exists.")
	case errors.Is(err, directory.ErrFull):
		report("put error: Directory limit reached.")
	case errors.Is(err, blockpool.ErrExhausted):
		report("put error: Internal error, block accounting is off.")
	default:
		report("put error: An error occurred reading from the input file.")
	}
}

func get(myfs *fs.Fs, args []string) {
	if len(args) < 2 {
		report("get error: File name missing.")
		return
	}
	name := args[1]
	copyName := name
	if len(args) > 2 {
		copyName = args[2]
	}
	// Buffer first so a missing name does not leave an empty host
	// file behind. Files are at most 96k, so this is fine.
	var b bytes.Buffer
	if err := myfs.Get(name, &b); err != nil {
		report("get error: File not found")
		return
	}
	out, err := os.Create(copyName)
	if err != nil {
		report("get error: An error occurred writing the output file.")
		return
	}
	defer out.Close()
	if _, err := out.Write(b.Bytes()); err != nil {
		report("get error: An error occurred writing the output file.")
	}
}

func del(myfs *fs.Fs, args []string) {
	if len(args) < 2 {
		report("del error: File name missing.")
		return
	}
	if err := myfs.Delete(args[1]); err != nil {
		report("del error: File not found.")
	}
}

func list(myfs *fs.Fs) {
	infos := myfs.List()
	if len(infos) == 0 {
		fmt.Println("list: No files found.")
		return
	}
	for _, info := range infos {
		fmt.Printf("%5d %s %s\n", info.Size,
			info.Created.Format("Jan 02 15:04"), info.Name)
	}
}
