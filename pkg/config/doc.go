/*
Package config manages configuration loading and validation for tabgenie.

	                  +-------------+
	                  |   Config    |
	                  +------+------+
	                         |
	     +-----------+-------+-------+-----------+
	     |           |               |           |
	+----+----+ +----+----+    +-----+----+ +----+-----+
	|  JSON   | |  YAML   |    |   HCL    | |   env    |
	+---------+ +---------+    +----------+ +----------+

🔄 Flow:
1. Reads the file, picking the format by extension
2. Overlays TABGENIE_* environment variables
3. Fills defaults for unset fields
4. Validates the result

📝 Example (.tabgenie, YAML flavor):

	project_id: genie
	formats: [clinical, cna]
	output_dir: output
	local_root: /srv/genie/containers
	store:
	  driver: postgres
	  dsn: postgres://genie@localhost:5432/genie?sslmode=disable
	upload:
	  filter_by_center: true
	  delete_absent: true

The same file in HCL:

	project_id = "genie"
	local_root = "/srv/genie/containers"

	store {
	  driver = "sqlite"
	  dsn    = "genie.db"
	}
*/
package config
