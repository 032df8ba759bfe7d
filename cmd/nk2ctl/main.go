// Command nk2ctl inspects Outlook nickname cache (NK2) files.
package main

func main() {
	execute()
}
