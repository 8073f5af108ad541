package usecase

import (
	"context"
	"fmt"

	"github.com/contractchecked/contract-checked/internal/core/domain"
	"github.com/contractchecked/contract-checked/internal/core/ports"
)

type CompareContractsUseCase struct {
	extractor ports.TextExtractor
	model     ports.ContractModel
}

func NewCompareContractsUseCase(extractor ports.TextExtractor, model ports.ContractModel) *CompareContractsUseCase {
	return &CompareContractsUseCase{
		extractor: extractor,
		model:     model,
	}
}

// Compare validates both uploads before extracting either, then sends both texts
// to the model in a single call.
func (uc *CompareContractsUseCase) Compare(
	ctx context.Context,
	operatorContract, bookingForm domain.UploadedDocument,
) (*domain.ComparisonResult, error) {
	for _, doc := range []domain.UploadedDocument{operatorContract, bookingForm} {
		if err := validateUpload(doc); err != nil {
			return nil, err
		}
	}

	operatorText, err := extractAnalyzableText(ctx, uc.extractor, operatorContract, msgOperatorInsufficient)
	if err != nil {
		return nil, err
	}
	bookingText, err := extractAnalyzableText(ctx, uc.extractor, bookingForm, msgBookingInsufficient)
	if err != nil {
		return nil, err
	}

	result, err := uc.model.CompareContracts(ctx, operatorText, bookingText, operatorContract.Filename, bookingForm.Filename)
	if err != nil {
		return nil, fmt.Errorf("compare contracts: %w", err)
	}
	return result, nil
}
