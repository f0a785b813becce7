// Command cwqi scores a lab sample export from the command line without a database.
package main

func main() {
	Execute()
}
