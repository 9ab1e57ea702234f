package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"parcel-ledger.backend/internal/domain/entities"
	domainerrors "parcel-ledger.backend/internal/domain/errors"
	"parcel-ledger.backend/internal/domain/repositories"
	"parcel-ledger.backend/pkg/logger"
)

// DefaultFallbackAttempts bounds fallback code draws when the registry reports collisions
const DefaultFallbackAttempts = 5

// PackageCodeUsecase assigns tracking codes to packages
type PackageCodeUsecase struct {
	uow              repositories.UnitOfWork
	packageRepo      repositories.PackageRepository
	areaRepo         repositories.AreaRepository
	allocator        *SequenceAllocator
	registry         FallbackCodeRegistry
	metrics          CodeMetrics
	fallbackAttempts int
}

// NewPackageCodeUsecase creates a new package code usecase
func NewPackageCodeUsecase(
	uow repositories.UnitOfWork,
	packageRepo repositories.PackageRepository,
	areaRepo repositories.AreaRepository,
	allocator *SequenceAllocator,
	fallbackAttempts int,
) *PackageCodeUsecase {
	if fallbackAttempts <= 0 {
		fallbackAttempts = DefaultFallbackAttempts
	}
	return &PackageCodeUsecase{
		uow:              uow,
		packageRepo:      packageRepo,
		areaRepo:         areaRepo,
		allocator:        allocator,
		metrics:          noopMetrics{},
		fallbackAttempts: fallbackAttempts,
	}
}

// SetFallbackRegistry installs the registry used to claim fallback codes
func (u *PackageCodeUsecase) SetFallbackRegistry(r FallbackCodeRegistry) {
	u.registry = r
}

// SetMetrics installs a metrics sink
func (u *PackageCodeUsecase) SetMetrics(m CodeMetrics) {
	if m == nil {
		m = noopMetrics{}
	}
	u.metrics = m
}

// Generate returns the package's code, assigning one on first call. The stored
// row is re-read under lock so concurrent calls allocate exactly once. On
// success pkg carries the persisted sequence and code.
func (u *PackageCodeUsecase) Generate(ctx context.Context, pkg *entities.Package) (string, error) {
	if pkg == nil || pkg.ID == uuid.Nil {
		return "", domainerrors.ErrInvalidInput
	}
	if pkg.HasCode() {
		return pkg.Code.String, nil
	}

	var (
		code     string
		sequence null.Int64
		fallback bool
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		stored, err := u.packageRepo.GetByID(u.uow.WithLock(txCtx), pkg.ID)
		if err != nil {
			return err
		}
		if stored.HasCode() {
			code, sequence = stored.Code.String, stored.SequenceNumber
			return nil
		}

		origin, destination, err := u.resolveAreas(txCtx, pkg, stored)
		if err != nil {
			return err
		}

		key := stored.RouteKey()
		originInitials := origin.NormalizedInitials()
		if originInitials == "" || key.DestinationAreaID == uuid.Nil {
			code, err = u.drawFallbackCode(txCtx)
			if err != nil {
				return err
			}
			fallback = true
			return u.packageRepo.AssignCode(txCtx, stored.ID, sequence, code)
		}

		next, err := u.allocator.Allocate(txCtx, key)
		if err != nil {
			return err
		}
		sequence = null.Int64From(next)
		code = FormatCode(originInitials, destination.NormalizedInitials(), next, key.IsIntraArea())
		return u.packageRepo.AssignCode(txCtx, stored.ID, sequence, code)
	})
	if err != nil {
		return "", err
	}

	if fallback {
		u.metrics.IncFallbackCode()
		logger.Warn(ctx, "Package received fallback code",
			zap.String("package_id", pkg.ID.String()),
			zap.String("code", code),
		)
	}
	pkg.SequenceNumber = sequence
	pkg.Code = null.StringFrom(code)
	return code, nil
}

// resolveAreas prefers the areas the caller already loaded and falls back to
// the repository. A missing area yields nil rather than an error.
func (u *PackageCodeUsecase) resolveAreas(ctx context.Context, pkg, stored *entities.Package) (*entities.Area, *entities.Area, error) {
	origin, err := u.resolveArea(ctx, stored.OriginAreaID, pkg.OriginArea)
	if err != nil {
		return nil, nil, err
	}
	if stored.OriginAreaID == stored.DestinationAreaID {
		return origin, origin, nil
	}
	destination, err := u.resolveArea(ctx, stored.DestinationAreaID, pkg.DestinationArea)
	if err != nil {
		return nil, nil, err
	}
	return origin, destination, nil
}

func (u *PackageCodeUsecase) resolveArea(ctx context.Context, id uuid.UUID, loaded *entities.Area) (*entities.Area, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	if loaded != nil && loaded.ID == id {
		return loaded, nil
	}
	area, err := u.areaRepo.GetByID(ctx, id)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return area, nil
}

func (u *PackageCodeUsecase) drawFallbackCode(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= u.fallbackAttempts; attempt++ {
		code := FallbackCode()
		if u.registry == nil {
			return code, nil
		}

		claimed, err := u.registry.Claim(ctx, code)
		if err != nil {
			logger.Warn(ctx, "Fallback code registry unavailable, using unclaimed code",
				zap.String("code", code),
				zap.Error(err),
			)
			return code, nil
		}
		if claimed {
			return code, nil
		}
		logger.Warn(ctx, "Fallback code collision", zap.String("code", code), zap.Int("attempt", attempt))
	}
	return "", domainerrors.ErrCodeCollision
}
