// Command dq profiles tabular datasets and reports data-quality issues.
package main

func main() {
	Execute()
}
