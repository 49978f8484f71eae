package resolver

// Usage describes how pages and options are supplied. Callers show it when
// a configuration resolves to no pages.
const Usage = `
autocruise cycles through a list of web pages, one at a time, and can show
all of them at once in a tile view.

Pages come from the host document the server was started with (one <a href>
per page), or from a JSON configuration document named in the URL:

    http://HOST:PORT/?config=URL_TO_CONFIG_JSON

The JSON document looks like:

- - - - - - - - - - 8< - - - - - - - - - - 8< - - - - - - - - - -
{
    "title": "My Autocruise",
    "interval": 60,
    "pages": [
        "page1.url",
        "page2.url"
    ]
}
- - - - - - - - - - 8< - - - - - - - - - - 8< - - - - - - - - - -

Parameters can be given by:
- the configuration document
- an "autocruise-NAME" attribute on the host document's <body>
- a URL parameter, NAME=VALUE

Parameters:
- interval:   cycle view switch interval, in seconds
- view:       initial view, "cycle" (default) or "tile"
- config:     URL of the JSON configuration document
- configbase: prefix prepended to config
`
