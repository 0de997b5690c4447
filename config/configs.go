package config

import (
	"encoding/xml"
	"fmt"
	"os"
)

var MainRouter string
var Template string
var Download string
var CatalogDB string
var DeviceName string
var MainConfig Config

type Config struct {
	XMLName    xml.Name `xml:"config"`
	MainRouter string   `xml:"MainRouter"`
	Template   string   `xml:"template"`
	Download   string   `xml:"download"`
	CatalogDB  string   `xml:"catalogdb"`
	DeviceName string   `xml:"DeviceName"`
}

func init() {

	xmlFile, err := os.Open("config.xml")
	if err != nil {
		fmt.Println("Error  opening  file:", err)
		return
	}
	defer xmlFile.Close()

	xmlDecoder := xml.NewDecoder(xmlFile)
	err = xmlDecoder.Decode(&MainConfig)
	if err != nil {
		fmt.Println("Error  decoding  XML:", err)
		return
	}
	MainRouter = MainConfig.MainRouter
	Template = MainConfig.Template
	Download = MainConfig.Download
	CatalogDB = MainConfig.CatalogDB
	DeviceName = MainConfig.DeviceName
}
