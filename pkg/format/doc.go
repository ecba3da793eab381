/*
Package format defines the contract every file type implements and the
registry that picks a type for a set of submitted files.

	              +------------+
	              |  Registry  |
	              +-----+------+
	                    | Classify (first match wins)
	        +-----------+-----------+
	        |           |           |
	   +----+----+ +----+----+ +----+----+
	   | Handler | | Handler | | Handler |
	   +----+----+ +----+----+ +----+----+
	        |
	   Load -> Check     (Validate)
	   Preprocess -> Load -> Transform     (Process)

🎯 Purpose:
- One Handler per file type, created fresh for each center
- Base supplies the defaults a type does not override
- Validate and Process check the parameter bag before touching data

🔄 Flow:
1. Registry.Classify asks each registered type, in order, whether it
   recognizes the file names
2. Validate loads the files and collects errors and warnings into a Report
3. Process merges preprocessed parameters, loads and transforms the files,
   and returns the output path

⚡ Parameters:
Each type declares the parameters it needs. Only those reach Check and
Transform; a missing one is a MissingParameterError.
*/
package format
