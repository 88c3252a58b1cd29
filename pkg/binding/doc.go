// Package binding keeps the fields of a configuration target in sync with a
// configuration tree.
//
// Fields are declared once as an ordered list of bindings. A scalar binding
// ties a field to one path; a section binding ties a field to a whole
// sub-tree and may declare seed entries that populate the section the first
// time it is created:
//
//	type ShopConfig struct {
//	    Port   int
//	    Limits store.Section
//	}
//
//	cfg := &ShopConfig{Port: 25565}
//	set, err := binding.New(
//	    binding.Scalar("Port", "server.port", binding.Var(&cfg.Port),
//	        binding.WithComment("Port the shop listens on")),
//	    binding.Section("Limits", "limits", binding.SectionVar(&cfg.Limits),
//	        binding.WithSeeds(binding.Default("max-users", "100", coerce.Int))),
//	)
//	if err != nil {
//	    return err
//	}
//
//	doc, err := store.Load("config.yml")
//	...
//	if err := binding.NewSynchronizer().Load(doc, set); err != nil {
//	    return err
//	}
//
// # Load
//
// [Synchronizer.Load] reads present values into fields, writes the current
// field value for absent scalar paths, and creates missing sections from
// their seeds. Values that do not convert to the field's kind leave the
// field untouched.
//
// # Save
//
// [Synchronizer.Save] writes every scalar field and rebuilds every bound
// section from the field's current section handle, re-applying the seeds on
// top so declared defaults win over copied keys.
//
// # Errors
//
// A field that cannot be read or assigned, or a store write that fails,
// aborts the pass with a [*BindingAccessError] naming the field and phase.
// Writes made before the failure are kept.
package binding
