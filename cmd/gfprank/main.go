// Package main is the gfprank command: it scrapes the Global Firepower
// previous-ranks page, saves the rankings as CSV and charts how selected
// countries moved over selected years.
//
// Usage:
//
//	gfprank run
//	gfprank run --countries Poland,Germany --years 2022,2023
//	gfprank plot --output gfp_rankings.csv
//
// See --help for all available options.
package main

func main() {
	Execute()
}
