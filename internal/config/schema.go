package config

// configSchema validates the top-level program config document. Embedded as
// a Go string literal and compiled once at startup rather than shipped as
// a separate asset file.
var configSchema = `
	{
  "type": "object",
  "properties": {
    "YEAR": {
      "description": "Election year tag. Recorded in the loaded document; not used in output paths or by the distribution core.",
      "type": "string"
    },
    "POLLING_PLACES_PATH": {
      "description": "Path to the AEC polling-places CSV. Recorded in the loaded document; not read by the distribution core, and AECSpecialBooths is not refreshed from it.",
      "type": "string"
    },
    "SA1S_BREAKDOWN_PATH": {
      "description": "Consumed by the later SA1 projection stage; unused by the distribution core.",
      "type": "string"
    },
    "OUTPUT_DIR": {
      "description": "Root directory under which each scenario's output files are written.",
      "type": "string"
    },
    "NPP_BOOTHS_FN": {
      "description": "Filename of the per-booth combo CSV within OUTPUT_DIR/<Scenario>/.",
      "type": "string"
    },
    "SA1S_PREFS_FN": {
      "description": "Consumed by the later SA1 projection stage; unused by the distribution core.",
      "type": "string"
    },
    "NPP_DISTS_FN": {
      "description": "Consumed by the later SA1 projection stage; unused by the distribution core.",
      "type": "string"
    }
  },
  "required": ["YEAR", "OUTPUT_DIR"]
	}`

// scenarioSchema validates one scenario section, including the synthetic
// DEFAULT section every named scenario inherits from.
var scenarioSchema = `
  {
    "type": "object",
    "properties": {
      "PREFS_PATH": {
        "description": "Ballot CSV path, or a .zip containing exactly one ballot CSV, or an s3:// object key.",
        "type": "string"
      },
      "STATE": {
        "description": "2-3 letter state/territory code this scenario's ballots belong to.",
        "type": "string"
      },
      "SA1S_DISTS_PATH": {
        "description": "Consumed by the later SA1 projection stage; unused by the distribution core.",
        "type": "string"
      },
      "GROUPS": {
        "description": "Ordered list of groups; group order determines output column order. Each member specifier is \"ticket:name\", or bare \"ticket\", which selects the ticket's ATL column and every BTL candidate column on that ticket.",
        "type": "array",
        "items": {
          "type": "object",
          "properties": {
            "CODE": { "type": "string" },
            "MEMBERS": {
              "type": "array",
              "items": { "type": "string" }
            }
          },
          "required": ["CODE", "MEMBERS"]
        }
      },
      "DB_DRIVER": {
        "description": "Optional SQL tally sink driver. Omit to disable SQL persistence.",
        "type": "string",
        "enum": ["sqlite3", "mysql"]
      },
      "DB_DSN": {
        "description": "Data source name for DB_DRIVER.",
        "type": "string"
      }
    }
  }`
