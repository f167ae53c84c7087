// Package config loads the filterq declaration file.
//
// The file declares the filters of a form and how filterq prints them. It is
// read with viper, so YAML, JSON and TOML all work; filterq.yaml in the
// working directory is picked up automatically.
//
// # Configuration File Structure
//
//	filters:
//	  - name: q
//	    type: text
//	    default: shoes
//	    displayName: Search
//	  - name: tags
//	    type: multiple
//	    default: [red, blue]
//	  - name: sort
//	    type: record
//	    default: {field: price, dir: asc}
//	output:
//	  format: yaml
//	  label: true
//	log:
//	  level: warn
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Check(); err != nil {
//	    return err
//	}
package config
