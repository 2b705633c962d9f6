package transport

// DataSource is a known open data portal or GTFS feed for the region. Most
// of them need a manual request or registration, so they are only listed.
type DataSource struct {
	Name        string
	URL         string
	Kind        string
	Description string
}

var Sources = []DataSource{
	{Name: "VRT OpenData Portal", URL: "https://www.vrt-info.de/fahrgastinformation/opendata/", Kind: "GTFS", Description: "Fahrplandaten für Region Trier"},
	{Name: "VRT API", URL: "https://api.vrt-info.de/", Kind: "REST API", Description: "Echtzeitdaten und Fahrpläne"},
	{Name: "DELFI e.V.", URL: "https://www.delfi.de/", Kind: "GTFS", Description: "Deutschlandweiter ÖPNV-Datenstandard"},
	{Name: "SWT Fahrplanauskunft", URL: "https://www.swt.de/verkehr/fahrplaene", Kind: "Web API", Description: "Aktuelle Fahrpläne der Stadtbusse"},
	{Name: "SWT Echtzeitdaten", URL: "https://www.swt.de/verkehr/echtzeitinfo", Kind: "Real-time", Description: "Live-Abfahrtszeiten"},
	{Name: "EFA (Elektronische Fahrplanauskunft)", URL: "https://efa.vrt-info.de/", Kind: "EFA API", Description: "Regionale Fahrplanauskunft"},
	{Name: "OpenOV (Deutschland)", URL: "https://gtfs.de/", Kind: "GTFS", Description: "Sammlung deutscher GTFS-Feeds"},
	{Name: "Transitland", URL: "https://www.transit.land/", Kind: "GTFS", Description: "Internationale GTFS-Datenbank"},
	{Name: "GTFS-Hub Deutschland", URL: "https://github.com/public-transport-germany/gtfs", Kind: "GTFS", Description: "GitHub-Repository mit deutschen GTFS-Daten"},
	{Name: "mCloud REST API", URL: "https://www.mcloud.de/web/guest/suche", Kind: "REST API", Description: "Bundesweite Mobilitätsdaten"},
	{Name: "OpenData Portal RLP", URL: "https://daten.rlp.de/", Kind: "Open Data", Description: "Offene Daten Rheinland-Pfalz"},
	{Name: "GovData Deutschland", URL: "https://www.govdata.de/", Kind: "Open Data", Description: "Zentrale Plattform für deutsche Open Data"},
	{Name: "Landesamt für Vermessung RLP", URL: "https://lvermgeo.rlp.de/", Kind: "Geodaten", Description: "Geodaten Rheinland-Pfalz"},
	{Name: "Bundesamt für Kartographie", URL: "https://www.bkg.bund.de/", Kind: "Geodaten", Description: "Deutschlandweite Verkehrsdaten"},
}
