// Package agent resolves and provisions the sprite toolkit binary.
//
// The launcher never ships the toolkit itself; it only guarantees that a
// usable copy exists on the host. Resolution checks the executable search
// path first, then a fixed list of conventional install directories. A
// resolved candidate is only trusted after a version probe proves it still
// executes; installs that exist on disk but cannot run (wrong architecture,
// missing shared libraries) fail the probe and get replaced through the
// remote install script.
//
// example usage
//
//	spr, err := agent.New(agent.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	// resolve a usable binary, installing one if needed
//	path, err := spr.Ensure(ctx)
//	if err != nil {
//		return fmt.Errorf("failed to provision the sprite binary: %w", err)
//	}
//
//	// delegate to it
//	exec.Command(path, "status").Run()
package agent
