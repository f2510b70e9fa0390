package main

import (
	"fmt"

	"github.com/fwojciec/siteaudit"
)

// Run executes the override set command. An existing override of the same
// user, audit and page is replaced.
func (c *OverrideSetCmd) Run(deps *Dependencies) error {
	user := c.User
	if user == "" && deps.Config != nil {
		user = deps.Config.User
	}

	o := &siteaudit.Override{
		UserID:   user,
		AuditID:  c.AuditID,
		PageURL:  c.PageURL,
		Priority: siteaudit.Tier(c.Priority),
		Reason:   c.Reason,
	}
	if err := deps.Overrides.UpsertOverride(deps.Ctx, o); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteaudit.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Set %s to %s (override %s)\n", o.PageURL, o.Priority, o.ID)
	return nil
}

// Run executes the override list command.
func (c *OverrideListCmd) Run(deps *Dependencies) error {
	if (c.Audit == "") == (c.User == "") {
		fmt.Fprintln(deps.Stderr, "error: specify exactly one of --audit or --user")
		return siteaudit.Errorf(siteaudit.EINVALID, "specify exactly one of --audit or --user")
	}

	var overrides []*siteaudit.Override
	var err error
	if c.Audit != "" {
		overrides, err = deps.Overrides.FindOverridesByAuditID(deps.Ctx, c.Audit)
	} else {
		overrides, err = deps.Overrides.FindOverridesByUserID(deps.Ctx, c.User)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteaudit.ErrorMessage(err))
		return err
	}

	if len(overrides) == 0 {
		fmt.Fprintln(deps.Stdout, "No overrides found. Use 'siteaudit override set' to create one.")
		return nil
	}

	for _, o := range overrides {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %s\n", o.ID, o.AuditID, o.Priority, o.PageURL, o.Reason)
	}
	return nil
}

// Run executes the override delete command.
func (c *OverrideDeleteCmd) Run(deps *Dependencies) error {
	if c.Audit != "" {
		if !c.Force {
			fmt.Fprintf(deps.Stderr, "error: use --force to confirm deleting every override of audit %s\n", c.Audit)
			return siteaudit.Errorf(siteaudit.EINVALID, "use --force to confirm deletion")
		}
		n, err := deps.Overrides.DeleteOverridesByAuditID(deps.Ctx, c.Audit)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", siteaudit.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Deleted %d overrides of audit %s\n", n, c.Audit)
		return nil
	}

	if c.ID == "" {
		fmt.Fprintln(deps.Stderr, "error: specify an override ID or --audit")
		return siteaudit.Errorf(siteaudit.EINVALID, "override ID required")
	}
	if err := deps.Overrides.DeleteOverride(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteaudit.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Deleted override %s\n", c.ID)
	return nil
}
