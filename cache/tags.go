package cache

import "context"

type invalidateFamiliesContextKey struct{}

// WithInvalidateFamilies attaches extra resource families that a mutation
// should invalidate in addition to its own family. Used when one mutation has
// side effects across families, e.g. deleting a product category touches the
// products lists too.
func WithInvalidateFamilies(ctx context.Context, families ...Family) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(families) == 0 {
		return ctx
	}

	existing := InvalidateFamiliesFromContext(ctx)
	combined := dedupeFamilies(append(existing, families...))
	if len(combined) == 0 {
		return ctx
	}

	return context.WithValue(ctx, invalidateFamiliesContextKey{}, combined)
}

// InvalidateFamiliesFromContext returns the extra families attached to ctx.
func InvalidateFamiliesFromContext(ctx context.Context) []Family {
	if ctx == nil {
		return nil
	}
	if families, ok := ctx.Value(invalidateFamiliesContextKey{}).([]Family); ok {
		return append([]Family(nil), families...)
	}
	return nil
}

func dedupeFamilies(families []Family) []Family {
	seen := make(map[Family]struct{}, len(families))
	out := families[:0]
	for _, f := range families {
		f = normalizeFamily(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
